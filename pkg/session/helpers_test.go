package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/pkg/auth"
	"github.com/perspective/pkg/changefeed"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]database.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]database.User)}
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[repository.NormaliseEmail(email)]
	if !ok {
		return nil, nil
	}

	return &user, nil
}

func (m *memoryUsers) Create(_ context.Context, attrs database.UserAttrs) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := repository.NormaliseEmail(attrs.Email)
	if _, ok := m.users[email]; ok {
		return nil, repository.ErrEmailTaken
	}

	user := database.User{ID: "user-" + email, Email: email, PasswordHash: attrs.PasswordHash}
	m.users[email] = user

	return &user, nil
}

func newTestStore(t *testing.T, hub *changefeed.Hub) *Store {
	t.Helper()

	tokens, err := auth.MakeJWTHandler([]byte("a-test-secret-with-enough-bytes"), time.Hour)
	if err != nil {
		t.Fatalf("jwt handler: %v", err)
	}

	var events changefeed.Publisher
	if hub != nil {
		events = hub
	}

	return NewStore(newMemoryUsers(), tokens, events)
}

type fakeProvider struct {
	mu        sync.Mutex
	session   *Session
	err       error
	listeners map[int]func(Event)
	next      int
	signedOut int
}

func newFakeProvider(sess *Session) *fakeProvider {
	return &fakeProvider{session: sess, listeners: make(map[int]func(Event))}
}

func (f *fakeProvider) CurrentSession(context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session == nil {
		return nil, f.err
	}

	copied := *f.session

	return &copied, f.err
}

func (f *fakeProvider) OnChange(fn func(Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	id := f.next
	f.listeners[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		delete(f.listeners, id)
	}
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.mu.Lock()
	f.session = nil
	f.signedOut++
	f.mu.Unlock()

	f.emit(Event{Kind: SignedOut})

	return nil
}

func (f *fakeProvider) set(sess *Session, kind EventKind) {
	f.mu.Lock()
	f.session = sess
	f.mu.Unlock()

	f.emit(Event{Kind: kind})
}

func (f *fakeProvider) emit(e Event) {
	f.mu.Lock()
	listeners := make([]func(Event), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(e)
	}
}

func (f *fakeProvider) listenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.listeners)
}

type countingRoles struct {
	mu     sync.Mutex
	admins map[string]bool
	calls  int
}

func (r *countingRoles) IsAdmin(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++

	return r.admins[userID], nil
}

func (r *countingRoles) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}
