package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/pkg/auth"
	"github.com/perspective/pkg/cache"
	"github.com/perspective/pkg/changefeed"
	"github.com/perspective/pkg/limiter"
	"github.com/perspective/pkg/portal"
)

const (
	signInWindow   = 15 * time.Minute
	signInMaxFails = 5
)

var (
	guardOnce sync.Once
	guard     auth.Password
)

func timingGuard() auth.Password {
	guardOnce.Do(func() {
		guard, _ = auth.MakePassword("perspective-timing-guard")
	})

	return guard
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*database.User, error)
	Create(ctx context.Context, attrs database.UserAttrs) (*database.User, error)
}

type credentials struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=72"`
}

// Store is the auth provider: it issues, refreshes and revokes session tokens.
type Store struct {
	users     UserRepository
	tokens    auth.JWTHandler
	revoked   *cache.TTLCache
	limiter   *limiter.MemoryLimiter
	events    changefeed.Publisher
	validator *portal.Validator
}

func NewStore(users UserRepository, tokens auth.JWTHandler, events changefeed.Publisher) *Store {
	return &Store{
		users:     users,
		tokens:    tokens,
		revoked:   cache.NewTTLCache(),
		limiter:   limiter.NewMemoryLimiter(signInWindow, signInMaxFails),
		events:    events,
		validator: portal.GetDefaultValidator(),
	}
}

// Validate returns the field errors of an email/password pair, or nil.
func (s *Store) Validate(email, password string) map[string]any {
	return s.validator.Inspect(credentials{Email: strings.TrimSpace(email), Password: password})
}

func (s *Store) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if errs := s.Validate(email, password); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignUp, errs)
	}

	hash, err := auth.MakePassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, database.UserAttrs{
		Email:        email,
		PasswordHash: hash.GetHash(),
		Role:         database.RoleUser,
	})

	if err != nil {
		return nil, err
	}

	return s.issue(user.ID, user.Email, SignedIn)
}

// SignIn checks the credentials. clientKey (usually the client IP) scopes the failure limiter.
func (s *Store) SignIn(ctx context.Context, clientKey, email, password string) (*Session, error) {
	limiterKey := clientKey + "|" + repository.NormaliseEmail(email)

	if s.limiter.TooMany(limiterKey) {
		return nil, ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// Unknown emails cost one bcrypt comparison too.
		timingGuard().Is(password)
		s.limiter.Fail(limiterKey)

		return nil, ErrInvalidCredentials
	}

	if !auth.PasswordFromHash(user.PasswordHash).Is(password) {
		s.limiter.Fail(limiterKey)

		return nil, ErrInvalidCredentials
	}

	s.limiter.Reset(limiterKey)

	return s.issue(user.ID, user.Email, SignedIn)
}

// Resolve returns the session behind a token that is valid and not revoked.
func (s *Store) Resolve(token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if s.revoked.Used(claims.ID) {
		return nil, ErrInvalidToken
	}

	return &Session{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Refresh rotates the token: a new one is issued and the old one revoked.
func (s *Store) Refresh(token string) (*Session, error) {
	current, err := s.Resolve(token)
	if err != nil {
		return nil, err
	}

	next, err := s.issue(current.UserID, current.Email, TokenRefreshed)
	if err != nil {
		return nil, err
	}

	s.revoke(*current)

	return next, nil
}

func (s *Store) SignOut(token string) error {
	current, err := s.Resolve(token)
	if err != nil {
		return err
	}

	s.revoke(*current)
	s.publish(SignedOut, *current)

	return nil
}

// Watch forwards the session events of one user to fn until the returned func is called.
func (s *Store) Watch(hub *changefeed.Hub, userID string, fn func(Event)) func() {
	sub := hub.Subscribe(EventsTable, changefeed.Eq("user_id", userID))

	go func() {
		for change := range sub.C {
			fn(Event{
				Kind:    EventKind(change.Fields["event"]),
				UserID:  change.Fields["user_id"],
				TokenID: change.Fields["token_id"],
			})
		}
	}()

	return sub.Close
}

func (s *Store) issue(userID, email string, kind EventKind) (*Session, error) {
	token, claims, err := s.tokens.Generate(userID, email)
	if err != nil {
		return nil, fmt.Errorf("unable to issue session token: %w", err)
	}

	sess := Session{
		UserID:    userID,
		Email:     email,
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	s.publish(kind, sess)

	return &sess, nil
}

func (s *Store) revoke(sess Session) {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return
	}

	s.revoked.Mark(sess.TokenID, ttl)
}

func (s *Store) publish(kind EventKind, sess Session) {
	if s.events == nil {
		return
	}

	s.events.Publish(changefeed.Change{
		Table: EventsTable,
		Op:    changefeed.Update,
		ID:    sess.TokenID,
		Fields: map[string]string{
			"user_id":  sess.UserID,
			"token_id": sess.TokenID,
			"event":    string(kind),
		},
	})

	slog.Debug("session event", "event", kind, "user_id", sess.UserID)
}

// IsClientError reports whether err is caused by the caller rather than the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTooManyAttempts) ||
		errors.Is(err, ErrInvalidSignUp) ||
		errors.Is(err, repository.ErrEmailTaken)
}
