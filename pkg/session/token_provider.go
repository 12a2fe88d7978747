package session

import (
	"context"
	"errors"
	"sync"

	"github.com/perspective/pkg/changefeed"
)

// TokenProvider is the Provider for a single bearer token. Events for the
// token's user arrive through the change feed, so a sign-out elsewhere is seen here.
type TokenProvider struct {
	store *Store
	hub   *changefeed.Hub

	mu    sync.RWMutex
	token string
}

func NewTokenProvider(store *Store, hub *changefeed.Hub, token string) *TokenProvider {
	return &TokenProvider{store: store, hub: hub, token: token}
}

func (p *TokenProvider) CurrentSession(ctx context.Context) (*Session, error) {
	p.mu.RLock()
	token := p.token
	p.mu.RUnlock()

	if token == "" {
		return nil, nil
	}

	sess, err := p.store.Resolve(token)
	if errors.Is(err, ErrInvalidToken) {
		return nil, nil
	}

	return sess, err
}

func (p *TokenProvider) OnChange(fn func(Event)) func() {
	sess, _ := p.CurrentSession(context.Background())
	if sess == nil || p.hub == nil {
		return func() {}
	}

	return p.store.Watch(p.hub, sess.UserID, fn)
}

func (p *TokenProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := p.token
	p.token = ""
	p.mu.Unlock()

	if token == "" {
		return nil
	}

	err := p.store.SignOut(token)
	if errors.Is(err, ErrInvalidToken) {
		return nil
	}

	return err
}
