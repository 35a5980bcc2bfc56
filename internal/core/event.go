package core

import "github.com/vovakirdan/chatline-server/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRegisterSuccess confirms a registration to the sender.
	EventRegisterSuccess EventKind = iota
	// EventRegisterFailure reports a rejected registration.
	EventRegisterFailure
	// EventDuplicateEmail reports that the email is already registered.
	EventDuplicateEmail
	// EventLoginSuccess delivers a session token.
	EventLoginSuccess
	// EventLoginFailure reports rejected credentials or a backend failure.
	EventLoginFailure
	// EventAuthenticated confirms a verified token.
	EventAuthenticated
	// EventUnauthenticated reports an invalid or expired token.
	EventUnauthenticated
	// EventNotify tells the other sessions that a user joined.
	EventNotify
	// EventGreet welcomes the joining user.
	EventGreet
	// EventGroupFailure reports an invalid group creation request.
	EventGroupFailure
	// EventTyping tells the other sessions someone is typing.
	EventTyping
	// EventInvalidUser reports a message from an unknown user.
	EventInvalidUser
	// EventBroadcastMessage delivers a chat message to the other sessions.
	EventBroadcastMessage
	// EventLoadUsers delivers the user list.
	EventLoadUsers
	// EventLoadChats delivers the chat history.
	EventLoadChats
	// EventLogoutSuccess confirms a logout.
	EventLogoutSuccess
	// EventLogoutFailure reports a failed logout.
	EventLogoutFailure
	// EventUserDisconnect tells the other sessions that a user logged out.
	EventUserDisconnect
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind EventKind
	// Name is the display name for success, join and leave events.
	Name  string
	Token string
	// Message is the human-readable reason on failure events.
	Message string
	Chat    *ChatLine
	Users   []*store.Identity
	Chats   []*store.ChatRecord
}

// ChatLine is the payload of a broadcast chat message.
type ChatLine struct {
	Name      string
	Message   string
	Timestamp string
}

func failure(kind EventKind, msg string) *Event {
	return &Event{Kind: kind, Message: msg}
}
