package session

import (
	"errors"
	"time"
)

// EventsTable is the change feed table carrying session events.
const EventsTable = "auth.sessions"

type EventKind string

const (
	SignedIn       EventKind = "signed-in"
	SignedOut      EventKind = "signed-out"
	TokenRefreshed EventKind = "token-refreshed"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("session token is invalid or expired")
	ErrTooManyAttempts    = errors.New("too many failed sign-in attempts")
	ErrInvalidSignUp      = errors.New("invalid sign-up details")
)

// Session is an authenticated identity bound to one token.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"access_token,omitempty"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) IsZero() bool {
	return s.UserID == ""
}

type Event struct {
	Kind    EventKind
	UserID  string
	TokenID string
}
