package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chatline-server/internal/auth"
	"github.com/vovakirdan/chatline-server/internal/store"
	"github.com/vovakirdan/chatline-server/internal/store/memory"
)

// testClock is 1:05 PM.
var testClock = time.Date(2024, 3, 9, 13, 5, 0, 0, time.UTC)

type testEnv struct {
	hub   *Hub
	store *memory.Store
	jwt   *auth.JWTConfig
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithStores(t, nil, nil)
}

func newTestEnvWithLog(t *testing.T, chats store.MessageLog) *testEnv {
	return newTestEnvWithStores(t, nil, chats)
}

// newTestEnvWithStores builds a running hub over a memory store.
// A non-nil directory or chats replaces the matching half of it.
func newTestEnvWithStores(t *testing.T, directory store.Directory, chats store.MessageLog) *testEnv {
	t.Helper()

	st := memory.New()
	jwtConfig := &auth.JWTConfig{Secret: []byte("test-secret"), Issuer: "test", TTL: auth.DefaultTokenTTL}
	var dir store.Directory = st
	if directory != nil {
		dir = directory
	}
	var log store.MessageLog = st
	if chats != nil {
		log = chats
	}

	hub := NewHub(dir, log, auth.NewService(dir, jwtConfig), WithClock(func() time.Time { return testClock }))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &testEnv{hub: hub, store: st, jwt: jwtConfig}
}

func (e *testEnv) connect(t *testing.T, id string) *Session {
	t.Helper()
	s := NewSession(id, 0)
	require.NoError(t, e.hub.RegisterClient(s))
	return s
}

func (e *testEnv) registerUser(t *testing.T, s *Session, name, email, password string) {
	t.Helper()
	s.Commands <- registerCmd(name, email, password, password)
	ev := nextEvent(t, s)
	require.Equal(t, EventRegisterSuccess, ev.Kind, "unexpected event: %+v", ev)
}

func registerCmd(name, email, password, confirm string) *Command {
	return &Command{Kind: CommandRegister, Name: &name, Email: email, Password: password, ConfirmPassword: confirm}
}

// nextEvent returns the next event queued for s.
func nextEvent(t *testing.T, s *Session) *Event {
	t.Helper()

	select {
	case ev, ok := <-s.Events():
		require.True(t, ok, "event queue closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("no event received by %s", s.ID)
		return nil
	}
}

// mustEvent skips events until one of kind arrives.
func mustEvent(t *testing.T, s *Session, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			require.True(t, ok, "event queue closed")
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received by %s", kind, s.ID)
			return nil
		}
	}
}

func expectNoEvent(t *testing.T, s *Session) {
	t.Helper()

	select {
	case ev, ok := <-s.Events():
		if ok {
			t.Fatalf("unexpected event for %s: %+v", s.ID, ev)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

// flush waits until every command queued on s before it has been handled.
func flush(t *testing.T, s *Session) {
	t.Helper()
	s.Commands <- &Command{Kind: CommandCreateGroup}
	mustEvent(t, s, EventGroupFailure)
}

var errStorage = errors.New("storage unavailable")

type failingLog struct{}

func (failingLog) AppendChat(context.Context, *store.ChatRecord) error { return errStorage }

func (failingLog) ListChats(context.Context) ([]*store.ChatRecord, error) { return nil, errStorage }

type failingDirectory struct{}

func (failingDirectory) CreateIdentity(context.Context, *store.Identity) error { return errStorage }

func (failingDirectory) GetIdentityByEmail(context.Context, string) (*store.Identity, error) {
	return nil, errStorage
}

func (failingDirectory) ListIdentities(context.Context) ([]*store.Identity, error) {
	return nil, errStorage
}
