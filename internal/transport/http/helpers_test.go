package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chatline-server/internal/auth"
	"github.com/vovakirdan/chatline-server/internal/config"
	"github.com/vovakirdan/chatline-server/internal/core"
	"github.com/vovakirdan/chatline-server/internal/proto"
	"github.com/vovakirdan/chatline-server/internal/store/memory"
)

type testServer struct {
	*httptest.Server
	store *memory.Store
	hub   *core.Hub
}

// startTestServer runs a hub over the memory store behind an httptest server.
func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zerolog.Nop()
	st := memory.New()
	authService := auth.NewService(st, &auth.JWTConfig{Secret: []byte("test-secret"), Issuer: "test"})
	hub := core.NewHub(st, st, authService, core.WithLogger(&logger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	cfg := config.Default()
	cfg.Addr = ":0"
	server := NewServer(hub, NewAPIHandlers(authService, st, st, &logger), &cfg, &logger)
	ts := httptest.NewServer(server.Handler)

	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})

	return &testServer{Server: ts, store: st, hub: hub}
}

func (ts *testServer) dial(t *testing.T, ctx context.Context) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

// wireEvent is an outbound envelope with its payload left raw.
type wireEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, event string, data any) {
	t.Helper()

	inbound := proto.Inbound{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		inbound.Data = raw
	}
	require.NoError(t, wsjson.Write(ctx, conn, inbound))
}

func read(t *testing.T, ctx context.Context, conn *websocket.Conn) wireEvent {
	t.Helper()

	readCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var ev wireEvent
	require.NoError(t, wsjson.Read(readCtx, conn, &ev))
	return ev
}

func readExpect(t *testing.T, ctx context.Context, conn *websocket.Conn, event string, v any) {
	t.Helper()

	ev := read(t, ctx, conn)
	require.Equal(t, event, ev.Event, "payload: %s", ev.Data)
	if v != nil {
		require.NoError(t, json.Unmarshal(ev.Data, v))
	}
}

// registerOverWS registers an account on conn and waits for the confirmation.
func registerOverWS(t *testing.T, ctx context.Context, conn *websocket.Conn, name, email, password string) {
	t.Helper()

	send(t, ctx, conn, proto.InboundRegister, proto.RegisterData{
		Name: name, Email: email, Password: password, ConfirmPassword: password,
	})
	var got string
	readExpect(t, ctx, conn, proto.OutboundRegisterSuccess, &got)
	require.Equal(t, name, got)
}
