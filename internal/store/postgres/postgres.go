package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vovakirdan/chatline-server/internal/store"
)

// Schema creates the tables used by PostgresStore. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS identities (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chats (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	message    TEXT NOT NULL,
	timestamp  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const uniqueViolation = "23505"

// PostgresStore implements store.Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*PostgresStore)(nil)

// New connects to the database described by dsn and applies Schema.
func New(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateIdentity inserts a new identity; the UNIQUE constraint makes it insert-if-absent.
func (s *PostgresStore) CreateIdentity(ctx context.Context, identity *store.Identity) error {
	email := store.NormalizeEmail(identity.Email)

	q := `INSERT INTO identities (name, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`
	var createdAt time.Time
	err := s.pool.QueryRow(ctx, q, identity.Name, email, identity.PasswordHash).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("insert identity: %w", err)
	}

	identity.Email = email
	identity.CreatedAt = createdAt
	return nil
}

// GetIdentityByEmail returns the identity for email or store.ErrNotFound.
func (s *PostgresStore) GetIdentityByEmail(ctx context.Context, email string) (*store.Identity, error) {
	q := `SELECT name, email, password_hash, created_at FROM identities WHERE email = $1`

	identity := &store.Identity{}
	err := s.pool.QueryRow(ctx, q, store.NormalizeEmail(email)).Scan(
		&identity.Name, &identity.Email, &identity.PasswordHash, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query identity: %w", err)
	}
	return identity, nil
}

// ListIdentities returns all identities in registration order.
func (s *PostgresStore) ListIdentities(ctx context.Context) ([]*store.Identity, error) {
	q := `SELECT name, email, password_hash, created_at FROM identities ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	identities := make([]*store.Identity, 0)
	for rows.Next() {
		identity := &store.Identity{}
		if err := rows.Scan(&identity.Name, &identity.Email, &identity.PasswordHash, &identity.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return identities, nil
}

// AppendChat inserts record, assigning an ID when it has none.
func (s *PostgresStore) AppendChat(ctx context.Context, record *store.ChatRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	q := `INSERT INTO chats (id, name, email, message, timestamp) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := s.pool.QueryRow(ctx, q, record.ID, record.Name, record.Email, record.Message, record.Timestamp).
		Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

// ListChats returns all chat records in insertion order.
func (s *PostgresStore) ListChats(ctx context.Context) ([]*store.ChatRecord, error) {
	q := `SELECT id, name, email, message, timestamp, created_at FROM chats ORDER BY seq ASC`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	records := make([]*store.ChatRecord, 0)
	for rows.Next() {
		rec := &store.ChatRecord{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Message, &rec.Timestamp, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return records, nil
}
