package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const refreshTimeout = 5 * time.Second

// Snapshot is an immutable view of the auth state.
type Snapshot struct {
	Session Session
	IsAdmin bool
	Loading bool
}

func (s Snapshot) IsAuthenticated() bool {
	return !s.Session.IsZero()
}

func (s Snapshot) UserID() string {
	return s.Session.UserID
}

func (s Snapshot) Email() string {
	return s.Session.Email
}

// Context holds the auth state for one consumer. It starts in the loading
// state, settles on Init and follows provider events until Close.
type Context struct {
	provider Provider
	roles    RoleLookup

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners map[uint64]func(Snapshot)
	nextID    uint64
	closed    bool

	refreshMu   sync.Mutex
	unsubscribe func()
}

func NewContext(provider Provider, roles RoleLookup) *Context {
	return &Context{
		provider:  provider,
		roles:     roles,
		snapshot:  Snapshot{Loading: true},
		listeners: make(map[uint64]func(Snapshot)),
	}
}

// Init reads the current session, derives the admin flag and starts following session events.
// A provider error leaves the context signed out and is returned.
func (c *Context) Init(ctx context.Context) error {
	err := c.refresh(ctx)

	unsubscribe := c.provider.OnChange(func(Event) {
		refreshCtx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		if err := c.refresh(refreshCtx); err != nil {
			slog.Warn("auth context refresh failed", "error", err)
		}
	})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		unsubscribe()

		return err
	}

	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	return err
}

func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshot
}

// Subscribe registers fn for every snapshot change and returns its unsubscribe func.
func (c *Context) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.listeners, id)
	}
}

func (c *Context) SignOut(ctx context.Context) error {
	if err := c.provider.SignOut(ctx); err != nil {
		return err
	}

	return c.refresh(ctx)
}

// Close stops following provider events and drops every listener. It is idempotent.
func (c *Context) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.closed = true
	c.listeners = make(map[uint64]func(Snapshot))
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Context) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current := c.Snapshot()
	next := Snapshot{}

	sess, err := c.provider.CurrentSession(ctx)
	if err == nil && sess != nil {
		next.Session = *sess
		next.IsAdmin, err = c.adminFor(ctx, current, next.Session.UserID)
	}

	if err != nil {
		next = Snapshot{}
	}

	c.publish(current, next)

	return err
}

// adminFor re-runs the role lookup only when the identity changed.
func (c *Context) adminFor(ctx context.Context, current Snapshot, userID string) (bool, error) {
	if !current.Loading && current.UserID() == userID {
		return current.IsAdmin, nil
	}

	if c.roles == nil {
		return false, nil
	}

	return c.roles.IsAdmin(ctx, userID)
}

func (c *Context) publish(previous, next Snapshot) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	c.snapshot = next

	if previous == next {
		c.mu.Unlock()
		return
	}

	listeners := make([]func(Snapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}

	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}
