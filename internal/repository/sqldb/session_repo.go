package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"eventtracks/internal/domain"
)

// SessionKey is the kv_store key holding the user session.
const SessionKey = "userData"

type SessionRepository struct {
	DB     *sql.DB
	driver string
}

func NewSessionRepository(db *sql.DB, driver string) domain.SessionRepository {
	return &SessionRepository{
		DB:     db,
		driver: driver,
	}
}

func (r *SessionRepository) Get(ctx context.Context) (*domain.UserSession, error) {
	query := rebind(r.driver, `SELECT value FROM kv_store WHERE key = ?`)
	var value string
	err := r.DB.QueryRowContext(ctx, query, SessionKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	session := &domain.UserSession{}
	if err := json.Unmarshal([]byte(value), session); err != nil {
		return nil, fmt.Errorf("decode %s: %w", SessionKey, err)
	}
	return session, nil
}

func (r *SessionRepository) Store(ctx context.Context, session *domain.UserSession) error {
	if session == nil {
		return errors.New("session is nil")
	}
	value, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode %s: %w", SessionKey, err)
	}
	query := rebind(r.driver, `
		INSERT INTO kv_store (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`)
	_, err = r.DB.ExecContext(ctx, query, SessionKey, string(value))
	return err
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	query := rebind(r.driver, `DELETE FROM kv_store WHERE key = ?`)
	_, err := r.DB.ExecContext(ctx, query, SessionKey)
	return err
}
