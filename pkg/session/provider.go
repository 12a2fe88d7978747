package session

import "context"

// Provider is the source of truth for the current session.
type Provider interface {
	// CurrentSession returns nil when nobody is signed in.
	CurrentSession(ctx context.Context) (*Session, error)
	// OnChange registers fn for session events and returns its unsubscribe func.
	OnChange(fn func(Event)) func()
	SignOut(ctx context.Context) error
}

type RoleLookup interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
