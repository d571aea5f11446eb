package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/session"
)

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id           CHAR(36)    NOT NULL PRIMARY KEY,
		sealed_state BLOB        NOT NULL,
		updated_at   DATETIME(6) NOT NULL,
		INDEX idx_sessions_updated_at (updated_at)
	)`

// SessionRepository is a session.Store backed by MySQL. Each row holds the
// sealed JSON state of one session and is deleted when the session ends, so
// nothing outlives the session it belongs to.
type SessionRepository struct {
	db     *sql.DB
	sealer *crypto.Sealer
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sql.DB, sealer *crypto.Sealer) *SessionRepository {
	return &SessionRepository{db: db, sealer: sealer}
}

// Migrate creates the sessions table if it does not exist.
func (r *SessionRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	data, err := r.encode(s)
	if err != nil {
		return err
	}

	query := `INSERT INTO sessions (id, sealed_state, updated_at) VALUES (?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, s.ID, data, s.UpdatedAt)
	return err
}

// Get loads and unseals a session.
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	query := `SELECT sealed_state FROM sessions WHERE id = ?`

	var data []byte
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	return r.decode(id, data)
}

// Update locks the row, applies fn and writes the result back in one transaction.
func (r *SessionRepository) Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var data []byte
	err = tx.QueryRowContext(ctx, `SELECT sealed_state FROM sessions WHERE id = ? FOR UPDATE`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	s, err := r.decode(id, data)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now().UTC()

	sealed, err := r.encode(s)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET sealed_state = ?, updated_at = ? WHERE id = ?`, sealed, s.UpdatedAt, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes the session row.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return session.ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions idle since before the cutoff.
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, before)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	return int(n), err
}

func (r *SessionRepository) encode(s *session.Session) ([]byte, error) {
	plain, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return r.sealer.Seal(plain, []byte(s.ID))
}

func (r *SessionRepository) decode(id string, data []byte) (*session.Session, error) {
	plain, err := r.sealer.Open(data, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	var s session.Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if s.History == nil {
		s.History = session.History{}
	}
	return &s, nil
}
