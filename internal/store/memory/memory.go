// Package memory keeps identities and chat history in process memory.
// Data is lost on restart; it backs tests and the "memory" database driver.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/chatline-server/internal/store"
)

// Store implements store.Store with mutex-guarded slices.
type Store struct {
	mu         sync.RWMutex
	identities []*store.Identity
	byEmail    map[string]*store.Identity
	chats      []*store.ChatRecord
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		byEmail: make(map[string]*store.Identity),
	}
}

// CreateIdentity stores a copy of identity unless its email is taken.
func (s *Store) CreateIdentity(_ context.Context, identity *store.Identity) error {
	email := store.NormalizeEmail(identity.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return store.ErrDuplicateEmail
	}

	identity.Email = email
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}
	stored := *identity
	s.byEmail[email] = &stored
	s.identities = append(s.identities, &stored)
	return nil
}

// GetIdentityByEmail returns a copy of the identity registered under email.
func (s *Store) GetIdentityByEmail(_ context.Context, email string) (*store.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.byEmail[store.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *identity
	return &copied, nil
}

// ListIdentities returns copies of all identities in registration order.
func (s *Store) ListIdentities(_ context.Context) ([]*store.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		copied := *identity
		out = append(out, &copied)
	}
	return out, nil
}

// AppendChat appends a copy of record, assigning an ID when it has none.
func (s *Store) AppendChat(_ context.Context, record *store.ChatRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	s.chats = append(s.chats, &stored)
	return nil
}

// ListChats returns copies of all chat records in insertion order.
func (s *Store) ListChats(_ context.Context) ([]*store.ChatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*store.ChatRecord, 0, len(s.chats))
	for _, rec := range s.chats {
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
