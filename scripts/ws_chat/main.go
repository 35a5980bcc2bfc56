package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/chatline-server/internal/core"
	"github.com/vovakirdan/chatline-server/internal/proto"
)

type rawOutbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:4000/ws", "WebSocket address")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if *email == "" || *password == "" {
		return errors.New("-email and -password are required")
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(event string, data any) {
		inbound := proto.Inbound{Event: event}
		if data != nil {
			raw, err := json.Marshal(data)
			if err != nil {
				log.Printf("marshal %s: %v", event, err)
				return
			}
			inbound.Data = raw
		}
		if writeErr := wsjson.Write(ctx, conn, inbound); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	send(proto.InboundLogin, proto.LoginData{Email: *email, Password: *password})
	send(proto.InboundNewUserConnected, proto.NewUserConnectedData{Email: *email, Message: "joined the chat"})

	fmt.Printf("Connected to %s as %s\n", *addr, *email)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn, send)
	}()

	writeLoop(ctx, *email, send)

	send(proto.InboundLogout, *email)
	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn, send func(string, any)) {
	for {
		var outbound rawOutbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch outbound.Event {
		case proto.OutboundLoginSuccess:
			var token string
			if err := json.Unmarshal(outbound.Data, &token); err != nil {
				log.Printf("unmarshal token: %v", err)
				continue
			}
			send(proto.InboundVerifyToken, token)
		case proto.OutboundBroadcastMessage:
			var msg proto.BroadcastMessage
			if err := json.Unmarshal(outbound.Data, &msg); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			fmt.Printf("[%s] %s: %s\n", msg.Timestamp, msg.Name, msg.Message)
		case proto.OutboundNotify, proto.OutboundGreet, proto.OutboundUserDisconnect:
			var name string
			if err := json.Unmarshal(outbound.Data, &name); err != nil {
				log.Printf("unmarshal %s: %v", outbound.Event, err)
				continue
			}
			fmt.Printf("* %s %s\n", name, describe(outbound.Event))
		case proto.OutboundTyping:
			fmt.Println("* someone is typing")
		default:
			fmt.Printf("event=%s data=%s\n", outbound.Event, outbound.Data)
		}
	}
}

func describe(event string) string {
	switch event {
	case proto.OutboundNotify:
		return "joined"
	case proto.OutboundGreet:
		return "welcome"
	default:
		return "left"
	}
}

func writeLoop(ctx context.Context, email string, send func(string, any)) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				send(proto.InboundTyping, nil)
				continue
			}

			send(proto.InboundSendMessage, proto.SendMessageData{
				Email:   email,
				Message: text,
				Time:    core.FormatClock(time.Now()),
			})
		}
	}
}
