package payload

import (
	"time"

	"github.com/perspective/pkg/session"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	IsAdmin     bool      `json:"is_admin"`
}

func MapSession(sess session.Session, isAdmin bool) SessionResponse {
	return SessionResponse{
		UserID:      sess.UserID,
		Email:       sess.Email,
		AccessToken: sess.Token,
		ExpiresAt:   sess.ExpiresAt,
		IsAdmin:     isAdmin,
	}
}

// SnapshotResponse is the read-only auth state of the caller.
type SnapshotResponse struct {
	IsAuthenticated bool       `json:"is_authenticated"`
	IsAdmin         bool       `json:"is_admin"`
	UserID          string     `json:"user_id,omitempty"`
	Email           string     `json:"email,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

func MapSnapshot(snapshot session.Snapshot) SnapshotResponse {
	out := SnapshotResponse{
		IsAuthenticated: snapshot.IsAuthenticated(),
		IsAdmin:         snapshot.IsAdmin,
		UserID:          snapshot.UserID(),
		Email:           snapshot.Email(),
	}

	if out.IsAuthenticated {
		expiresAt := snapshot.Session.ExpiresAt
		out.ExpiresAt = &expiresAt
	}

	return out
}
