package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
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
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:4000/ws", "WebSocket address")
	name := flag.String("name", "Tester", "display name to register")
	email := flag.String("email", fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano()), "account email")
	password := flag.String("password", "smoke-secret", "account password")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(event string, data any) error {
		inbound := proto.Inbound{Event: event}
		if data != nil {
			raw, err := json.Marshal(data)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", event, err)
			}
			inbound.Data = raw
		}
		if err := wsjson.Write(ctx, conn, inbound); err != nil {
			return fmt.Errorf("send %s: %w", event, err)
		}
		return nil
	}

	expect := func(event string, v any) error {
		var out rawOutbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		fmt.Printf("Received outbound: event=%s data=%s\n", out.Event, out.Data)
		if out.Event != event {
			return fmt.Errorf("expected %s, got %s", event, out.Event)
		}
		if v != nil {
			return json.Unmarshal(out.Data, v)
		}
		return nil
	}

	steps := []func() error{
		func() error {
			if err := send(proto.InboundRegister, proto.RegisterData{
				Name: *name, Email: *email, Password: *password, ConfirmPassword: *password,
			}); err != nil {
				return err
			}
			return expect(proto.OutboundRegisterSuccess, nil)
		},
		func() error {
			if err := send(proto.InboundLogin, proto.LoginData{Email: *email, Password: *password}); err != nil {
				return err
			}
			var token string
			if err := expect(proto.OutboundLoginSuccess, &token); err != nil {
				return err
			}
			if err := send(proto.InboundVerifyToken, token); err != nil {
				return err
			}
			return expect(proto.OutboundAuthenticated, nil)
		},
		func() error {
			// Broadcasts skip the sender, so history is the only confirmation.
			if err := send(proto.InboundSendMessage, proto.SendMessageData{
				Email: *email, Message: *text, Time: core.FormatClock(time.Now()),
			}); err != nil {
				return err
			}
			if err := send(proto.InboundLoadChats, nil); err != nil {
				return err
			}
			var chats []proto.Chat
			if err := expect(proto.OutboundLoadChats, &chats); err != nil {
				return err
			}
			if len(chats) == 0 || chats[len(chats)-1].Message != *text {
				return fmt.Errorf("sent message missing from history")
			}
			return nil
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	fmt.Println("smoke test passed")
	return nil
}
