package domain

import "context"

// UserSession is the locally stored record of the current user.
type UserSession struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// SessionRepository persists the single local user session record.
type SessionRepository interface {
	Get(ctx context.Context) (*UserSession, error)
	Store(ctx context.Context, session *UserSession) error
	Clear(ctx context.Context) error
}
