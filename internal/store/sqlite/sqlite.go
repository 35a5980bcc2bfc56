package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/chatline-server/internal/store"
)

// Schema creates the tables used by SQLiteStore. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS identities (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chats (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	message    TEXT NOT NULL,
	timestamp  TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

// New opens the database at dbPath and applies Schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, Migrate)
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate applies Schema to db.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== Directory implementation ====

// CreateIdentity inserts a new identity, relying on the UNIQUE constraint for atomicity.
func (s *SQLiteStore) CreateIdentity(ctx context.Context, identity *store.Identity) error {
	email := store.NormalizeEmail(identity.Email)
	createdAt := identity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO identities (name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, identity.Name, email, identity.PasswordHash, createdAt); err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("insert identity: %w", err)
	}

	identity.Email = email
	identity.CreatedAt = createdAt
	return nil
}

// GetIdentityByEmail retrieves an identity by email.
func (s *SQLiteStore) GetIdentityByEmail(ctx context.Context, email string) (*store.Identity, error) {
	query := `
		SELECT name, email, password_hash, created_at
		FROM identities
		WHERE email = ?
	`
	var identity store.Identity
	err := s.db.QueryRowContext(ctx, query, store.NormalizeEmail(email)).Scan(
		&identity.Name,
		&identity.Email,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query identity: %w", err)
	}

	return &identity, nil
}

// ListIdentities returns all identities ordered by insertion.
func (s *SQLiteStore) ListIdentities(ctx context.Context) ([]*store.Identity, error) {
	query := `
		SELECT name, email, password_hash, created_at
		FROM identities
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	identities := make([]*store.Identity, 0)
	for rows.Next() {
		var identity store.Identity
		if err := rows.Scan(&identity.Name, &identity.Email, &identity.PasswordHash, &identity.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, &identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}

	return identities, nil
}

// ==== MessageLog implementation ====

// AppendChat persists a chat record, assigning an ID when missing.
func (s *SQLiteStore) AppendChat(ctx context.Context, record *store.ChatRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO chats (id, name, email, message, timestamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.Name, record.Email, record.Message, record.Timestamp, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	return nil
}

// ListChats returns the whole chat history, oldest first.
func (s *SQLiteStore) ListChats(ctx context.Context) ([]*store.ChatRecord, error) {
	query := `
		SELECT id, name, email, message, timestamp, created_at
		FROM chats
		ORDER BY seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	records := make([]*store.ChatRecord, 0)
	for rows.Next() {
		var rec store.ChatRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Message, &rec.Timestamp, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	return records, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
