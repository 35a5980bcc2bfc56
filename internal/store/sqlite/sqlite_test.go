package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chatline-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateIdentityNormalizesEmail(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	identity := &store.Identity{Name: "Ada", Email: "  Ada@X.com ", PasswordHash: "hash"}
	req.NoError(s.CreateIdentity(ctx, identity))
	req.Equal("ada@x.com", identity.Email)

	got, err := s.GetIdentityByEmail(ctx, "ADA@x.com")
	req.NoError(err)
	req.Equal("Ada", got.Name)
	req.Equal("hash", got.PasswordHash)
}

func TestCreateIdentityRejectsDuplicate(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	req.NoError(s.CreateIdentity(ctx, &store.Identity{Name: "Ada", Email: "a@x.com", PasswordHash: "p1"}))
	err := s.CreateIdentity(ctx, &store.Identity{Name: "Other", Email: "A@x.com", PasswordHash: "p2"})
	req.ErrorIs(err, store.ErrDuplicateEmail)

	identities, err := s.ListIdentities(ctx)
	req.NoError(err)
	req.Len(identities, 1)
	req.Equal("Ada", identities[0].Name)
	req.Equal("p1", identities[0].PasswordHash)
}

func TestConcurrentCreateIdentityKeepsOne(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.CreateIdentity(ctx, &store.Identity{Name: "Ada", Email: "a@x.com", PasswordHash: "p"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, store.ErrDuplicateEmail):
				duplicates++
			}
		}()
	}
	wg.Wait()

	req.Equal(1, created)
	req.Equal(attempts-1, duplicates)
}

func TestGetIdentityByEmailNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetIdentityByEmail(context.Background(), "missing@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppendAndListChats(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	first := &store.ChatRecord{Name: "Ada", Email: "a@x.com", Message: "hi", Timestamp: "1:00 PM"}
	second := &store.ChatRecord{Name: "Bob", Email: "b@x.com", Message: "hey", Timestamp: "1:01 PM"}
	req.NoError(s.AppendChat(ctx, first))
	req.NoError(s.AppendChat(ctx, second))
	req.NotEmpty(first.ID)

	chats, err := s.ListChats(ctx)
	req.NoError(err)
	req.Len(chats, 2)
	req.Equal(first.ID, chats[0].ID)
	req.Equal("hi", chats[0].Message)
	req.Equal("1:00 PM", chats[0].Timestamp)
	req.Equal("Bob", chats[1].Name)
}

func TestListOnEmptyStore(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	identities, err := s.ListIdentities(ctx)
	req.NoError(err)
	req.Empty(identities)

	chats, err := s.ListChats(ctx)
	req.NoError(err)
	req.Empty(chats)
}
