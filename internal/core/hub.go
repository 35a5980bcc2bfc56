package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/chatline-server/internal/auth"
	"github.com/vovakirdan/chatline-server/internal/store"
)

// LobbyName names the single room every session joins.
const LobbyName = "lobby"

// Authenticator covers the credential and token operations the hub needs.
type Authenticator interface {
	Register(ctx context.Context, in auth.RegisterInput) (*store.Identity, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(token string) (string, error)
}

// Hub owns the active sessions and dispatches their commands.
// Commands of one session run in order on that session's worker;
// different sessions are served concurrently.
type Hub struct {
	directory store.Directory
	chats     store.MessageLog
	auth      Authenticator
	log       *zerolog.Logger
	now       func() time.Time

	lobby *Room

	// mu orders RegisterClient against shutdown.
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// HubOption customizes a Hub.
type HubOption func(*Hub)

// WithClock overrides the wall clock used to stamp join announcements.
func WithClock(now func() time.Time) HubOption {
	return func(h *Hub) {
		h.now = now
	}
}

// WithLogger sets the hub logger.
func WithLogger(logger *zerolog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.log = logger
		}
	}
}

// NewHub creates a hub with an empty set of active sessions.
func NewHub(directory store.Directory, chats store.MessageLog, authn Authenticator, opts ...HubOption) *Hub {
	nop := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		directory: directory,
		chats:     chats,
		auth:      authn,
		log:       &nop,
		now:       time.Now,
		lobby:     NewRoom(LobbyName),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run blocks until ctx is cancelled, then ends every session and waits
// for their workers to return.
func (h *Hub) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-h.ctx.Done():
	}
	h.mu.Lock()
	h.cancel()
	h.mu.Unlock()

	for _, s := range h.lobby.Snapshot() {
		h.lobby.Remove(s)
		s.close()
	}
	h.wg.Wait()
	h.log.Info().Msg("hub stopped")
}

// RegisterClient adds the session to the active set and starts its worker.
func (h *Hub) RegisterClient(s *Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx.Err() != nil {
		return ErrHubClosed
	}
	if !h.lobby.Add(s) {
		return nil
	}

	h.wg.Add(1)
	go h.serve(s)

	h.log.Debug().Str("session_id", s.ID).Int("active", h.lobby.Len()).Msg("session connected")
	return nil
}

// UnregisterClient removes the session from the active set and closes it.
func (h *Hub) UnregisterClient(s *Session) {
	if h.lobby.Remove(s) {
		h.log.Debug().Str("session_id", s.ID).Int("active", h.lobby.Len()).Msg("session disconnected")
	}
	s.close()
}

// ActiveSessions returns the number of connected sessions.
func (h *Hub) ActiveSessions() int {
	return h.lobby.Len()
}

func (h *Hub) serve(s *Session) {
	defer h.wg.Done()

	for {
		select {
		case cmd := <-s.Commands:
			if cmd != nil {
				h.dispatch(h.ctx, s, cmd)
			}
		case <-s.Done():
			return
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, s *Session, cmd *Command) {
	switch cmd.Kind {
	case CommandRegister:
		h.handleRegister(ctx, s, cmd)
	case CommandLogin:
		h.handleLogin(ctx, s, cmd)
	case CommandVerifyToken:
		h.handleVerifyToken(s, cmd)
	case CommandAnnounceJoin:
		h.handleAnnounceJoin(ctx, s, cmd)
	case CommandCreateGroup:
		h.handleCreateGroup(s, cmd)
	case CommandTyping:
		h.broadcast(s, &Event{Kind: EventTyping})
	case CommandSendMessage:
		h.handleSendMessage(ctx, s, cmd)
	case CommandLoadHome:
		h.handleLoadHome(ctx, s)
	case CommandLoadChats:
		h.handleLoadChats(ctx, s)
	case CommandLogout:
		h.handleLogout(ctx, s, cmd)
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Str("session_id", s.ID).Msg("unknown command")
	}
}

// emit sends an event to a single session.
func (h *Hub) emit(s *Session, event *Event) {
	if !s.send(event) {
		h.log.Debug().Str("session_id", s.ID).Int("event", int(event.Kind)).Msg("event dropped")
	}
}

// broadcast sends an event to every active session except sender.
func (h *Hub) broadcast(sender *Session, event *Event) {
	recipients := lo.Filter(h.lobby.Snapshot(), func(s *Session, _ int) bool {
		return s != sender
	})
	for _, s := range recipients {
		h.emit(s, event)
	}
}
