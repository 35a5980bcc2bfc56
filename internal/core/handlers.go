package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/chatline-server/internal/auth"
	"github.com/vovakirdan/chatline-server/internal/store"
)

// clockLayout renders times as "h:mm AM/PM", with 12 for noon and midnight.
const clockLayout = "3:04 PM"

// FormatClock formats t the way join announcements are stamped.
func FormatClock(t time.Time) string {
	return t.Format(clockLayout)
}

func (h *Hub) handleRegister(ctx context.Context, s *Session, cmd *Command) {
	identity, err := h.auth.Register(ctx, auth.RegisterInput{
		Name:            derefName(cmd.Name),
		Email:           cmd.Email,
		Password:        cmd.Password,
		ConfirmPassword: cmd.ConfirmPassword,
	})
	switch {
	case err == nil:
		h.log.Info().Str("email", identity.Email).Msg("user registered")
		h.emit(s, &Event{Kind: EventRegisterSuccess, Name: identity.Name})
	case errors.Is(err, auth.ErrPasswordMismatch):
		h.emit(s, failure(EventRegisterFailure, MsgPasswordMismatch))
	case errors.Is(err, auth.ErrPasswordTooLong):
		h.emit(s, failure(EventRegisterFailure, MsgPasswordTooLong))
	case errors.Is(err, auth.ErrInvalidRegistration):
		h.log.Debug().Err(err).Str("session_id", s.ID).Msg("invalid registration")
		h.emit(s, failure(EventRegisterFailure, MsgInvalidRegistration))
	case errors.Is(err, auth.ErrUserExists):
		h.emit(s, failure(EventDuplicateEmail, MsgDuplicateEmail))
	default:
		h.log.Error().Err(err).Str("session_id", s.ID).Msg("failed to register user")
		h.emit(s, failure(EventRegisterFailure, MsgRegistrationFailed))
	}
}

func (h *Hub) handleLogin(ctx context.Context, s *Session, cmd *Command) {
	token, err := h.auth.Login(ctx, cmd.Email, cmd.Password)
	switch {
	case err == nil:
		h.emit(s, &Event{Kind: EventLoginSuccess, Token: token})
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.emit(s, failure(EventLoginFailure, MsgIncorrectLogin))
	default:
		h.log.Error().Err(err).Str("session_id", s.ID).Msg("failed to login user")
		h.emit(s, failure(EventLoginFailure, MsgTryAgainLater))
	}
}

func (h *Hub) handleVerifyToken(s *Session, cmd *Command) {
	email, err := h.auth.VerifyToken(cmd.Token)
	if err != nil {
		h.log.Debug().Err(err).Str("session_id", s.ID).Msg("token rejected")
		h.emit(s, &Event{Kind: EventUnauthenticated})
		return
	}

	if s.authenticate(email) {
		h.log.Debug().Str("session_id", s.ID).Str("email", email).Msg("session authenticated")
	}
	h.emit(s, &Event{Kind: EventAuthenticated})
}

// handleAnnounceJoin persists the join line before telling anyone about it.
// Failures are logged only.
func (h *Hub) handleAnnounceJoin(ctx context.Context, s *Session, cmd *Command) {
	name := derefName(cmd.Name)
	if cmd.Name == nil {
		identity, err := h.directory.GetIdentityByEmail(ctx, cmd.Email)
		if err != nil {
			h.log.Error().Err(err).Str("email", cmd.Email).Msg("resolve joining user")
			return
		}
		name = identity.Name
	}

	record := &store.ChatRecord{
		Name:      name,
		Email:     store.NormalizeEmail(cmd.Email),
		Message:   cmd.Text,
		Timestamp: FormatClock(h.now()),
	}
	if err := h.chats.AppendChat(ctx, record); err != nil {
		h.log.Error().Err(err).Str("email", cmd.Email).Msg("persist join announcement")
		return
	}

	h.broadcast(s, &Event{Kind: EventNotify, Name: name})
	h.emit(s, &Event{Kind: EventGreet, Name: name})
}

// handleCreateGroup only validates; groups are not stored.
func (h *Hub) handleCreateGroup(s *Session, cmd *Command) {
	if cmd.Title == "" {
		h.emit(s, failure(EventGroupFailure, MsgGroupFailure))
	}
}

// handleSendMessage reports a missing email but still performs the lookup,
// which then reports the unknown user a second time.
func (h *Hub) handleSendMessage(ctx context.Context, s *Session, cmd *Command) {
	if cmd.Email == "" {
		h.emit(s, failure(EventInvalidUser, MsgInvalidUser))
	}

	identity, err := h.directory.GetIdentityByEmail(ctx, cmd.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Error().Err(err).Str("email", cmd.Email).Msg("lookup message author")
			return
		}
		h.emit(s, failure(EventInvalidUser, MsgInvalidUser))
		return
	}

	record := &store.ChatRecord{
		Name:      identity.Name,
		Email:     identity.Email,
		Message:   cmd.Text,
		Timestamp: cmd.Time,
	}
	if err := h.chats.AppendChat(ctx, record); err != nil {
		h.log.Error().Err(err).Str("email", identity.Email).Msg("persist chat message")
		return
	}

	h.broadcast(s, &Event{
		Kind: EventBroadcastMessage,
		Chat: &ChatLine{Name: identity.Name, Message: cmd.Text, Timestamp: cmd.Time},
	})
}

func (h *Hub) handleLoadHome(ctx context.Context, s *Session) {
	users, err := h.directory.ListIdentities(ctx)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", s.ID).Msg("list users")
		return
	}
	h.emit(s, &Event{Kind: EventLoadUsers, Users: users})
}

func (h *Hub) handleLoadChats(ctx context.Context, s *Session) {
	chats, err := h.chats.ListChats(ctx)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", s.ID).Msg("list chats")
		return
	}
	h.emit(s, &Event{Kind: EventLoadChats, Chats: chats})
}

// handleLogout confirms the logout even when the email is unknown; the
// departure broadcast then fails and is reported as a logout failure.
func (h *Hub) handleLogout(ctx context.Context, s *Session, cmd *Command) {
	if err := h.logout(ctx, s, cmd.Email); err != nil {
		h.log.Warn().Err(err).Str("email", cmd.Email).Msg("logout")
		h.emit(s, failure(EventLogoutFailure, MsgLogoutFailure))
	}
}

func (h *Hub) logout(ctx context.Context, s *Session, email string) error {
	identity, err := h.directory.GetIdentityByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("lookup user: %w", err)
		}
		h.emit(s, failure(EventLogoutFailure, MsgLogoutFailure))
	}

	h.emit(s, &Event{Kind: EventLogoutSuccess})

	if identity == nil {
		return fmt.Errorf("announce departure of %q: %w", email, ErrUnknownUser)
	}
	h.broadcast(s, &Event{Kind: EventUserDisconnect, Name: identity.Name})
	return nil
}

func derefName(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}
