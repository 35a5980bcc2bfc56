package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an identity with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Identity is a registered user as kept by the directory.
type Identity struct {
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ChatRecord is one persisted chat line.
type ChatRecord struct {
	ID        string
	Name      string
	Email     string
	Message   string
	Timestamp string // display time, e.g. "1:05 PM"
	CreatedAt time.Time
}

// Directory handles identity persistence.
type Directory interface {
	// CreateIdentity inserts the identity if no identity with the same email exists.
	// The check and the insert are atomic; a collision returns ErrDuplicateEmail.
	CreateIdentity(ctx context.Context, identity *Identity) error

	// GetIdentityByEmail retrieves an identity by normalized email.
	// Returns ErrNotFound when no identity matches.
	GetIdentityByEmail(ctx context.Context, email string) (*Identity, error)

	// ListIdentities returns every identity in insertion order.
	ListIdentities(ctx context.Context) ([]*Identity, error)
}

// MessageLog handles chat history persistence.
type MessageLog interface {
	// AppendChat persists a chat record. Records are never updated.
	AppendChat(ctx context.Context, record *ChatRecord) error

	// ListChats returns the whole history, oldest first.
	ListChats(ctx context.Context) ([]*ChatRecord, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	Directory
	MessageLog

	// Close releases the underlying connection.
	Close() error
}

// NormalizeEmail trims and lowercases an email so it can be used as a directory key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
