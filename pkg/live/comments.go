package live

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/pkg/changefeed"
	"github.com/perspective/pkg/session"
	"go.opentelemetry.io/otel/attribute"
)

const (
	NoticeLoginRequired  = "You must be logged in to comment"
	NoticeCommentAdded   = "Comment added!"
	NoticeAddFailed      = "Failed to add comment"
	NoticeCommentUpdated = "Comment updated"
	NoticeUpdateFailed   = "Failed to update comment"
	NoticeCommentDeleted = "Comment deleted"
	NoticeDeleteFailed   = "Failed to delete comment"
)

var ErrLoginRequired = errors.New("login required")

type CommentStore interface {
	ForArticle(ctx context.Context, articleID string) ([]database.Comment, error)
	Create(ctx context.Context, attrs database.CommentAttrs) (*database.Comment, error)
	Update(ctx context.Context, articleID, id, userID, content string) (*database.Comment, error)
	Delete(ctx context.Context, articleID, id, userID string) error
}

// AuthState is the read side of session.Context.
type AuthState interface {
	Snapshot() session.Snapshot
	Subscribe(fn func(session.Snapshot)) func()
}

type CommentDisplay struct {
	ID         string    `json:"id"`
	ArticleID  string    `json:"article_id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CanEdit    bool      `json:"can_edit"`
}

type CommentsState struct {
	Comments        []CommentDisplay `json:"comments"`
	Loading         bool             `json:"loading"`
	IsAuthenticated bool             `json:"is_authenticated"`
	CurrentUserID   string           `json:"current_user_id,omitempty"`
	Version         uint64           `json:"version"`
}

// Comments is the live comment thread of one article.
type Comments struct {
	store     CommentStore
	feed      Feed
	articleID string
	auth      AuthState
	notifier  Notifier

	mu       sync.RWMutex
	rows     []database.Comment
	loading  bool
	issued   uint64
	applied  uint64
	closed   bool
	authStop func()

	watch   watcher
	updates *latest[CommentsState]
}

func NewComments(store CommentStore, feed Feed, articleID string, auth AuthState, notifier Notifier) *Comments {
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}

	return &Comments{
		store:     store,
		feed:      feed,
		articleID: strings.TrimSpace(articleID),
		auth:      auth,
		notifier:  notifier,
		loading:   true,
		updates:   newLatest[CommentsState](),
	}
}

// Load fetches the thread once. A failed fetch keeps the previous comments.
func (c *Comments) Load(ctx context.Context) CommentsState {
	if c.articleID == "" {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()

		return c.State()
	}

	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	ctx, span := tracer.Start(ctx, "live.comments.refetch")
	span.SetAttributes(attribute.String("article_id", c.articleID))
	defer span.End()

	rows, err := c.store.ForArticle(ctx, c.articleID)
	observeRefetch("comments", err)

	c.mu.Lock()

	if seq <= c.applied || c.closed {
		c.mu.Unlock()
		return c.State()
	}

	c.applied = seq
	c.loading = false

	if err != nil {
		span.RecordError(err)
		slog.Error("comments refetch failed", "article_id", c.articleID, "error", err)
	} else {
		c.rows = rows
	}

	c.mu.Unlock()

	state := c.State()
	c.updates.send(state)

	return state
}

// Start follows the article's comments and the auth state until Close.
func (c *Comments) Start(ctx context.Context) {
	if c.auth != nil {
		stop := c.auth.Subscribe(func(session.Snapshot) {
			c.updates.send(c.State())
		})

		c.mu.Lock()
		previous := c.authStop
		c.authStop = stop
		c.mu.Unlock()

		if previous != nil {
			previous()
		}
	}

	filter := changefeed.Eq("article_id", c.articleID)

	c.watch.start(ctx, c.feed, database.CommentsTable, filter, func(ctx context.Context) {
		if ctx.Err() == nil {
			c.Load(ctx)
		}
	})
}

// State derives the visible thread for the current auth snapshot.
func (c *Comments) State() CommentsState {
	snapshot := c.snapshot()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := CommentsState{
		Comments:        make([]CommentDisplay, 0, len(c.rows)),
		Loading:         c.loading,
		IsAuthenticated: snapshot.IsAuthenticated(),
		CurrentUserID:   snapshot.UserID(),
		Version:         c.applied,
	}

	for _, row := range c.rows {
		out.Comments = append(out.Comments, CommentDisplay{
			ID:         row.ID,
			ArticleID:  row.ArticleID,
			UserID:     row.UserID,
			Content:    row.Content,
			AuthorName: row.AuthorName,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
			CanEdit:    out.CurrentUserID != "" && out.CurrentUserID == row.UserID,
		})
	}

	return out
}

func (c *Comments) Updates() <-chan CommentsState {
	return c.updates.C()
}

// Add posts a comment as the signed-in user. Without a session it fails
// before touching the store. The thread refreshes through the change feed.
func (c *Comments) Add(ctx context.Context, content string) bool {
	snapshot := c.snapshot()

	if !snapshot.IsAuthenticated() || c.articleID == "" {
		c.notify(NoticeError, NoticeLoginRequired, ErrLoginRequired)
		return false
	}

	_, err := c.store.Create(ctx, database.CommentAttrs{
		ArticleID:  c.articleID,
		UserID:     snapshot.UserID(),
		Content:    strings.TrimSpace(content),
		AuthorName: AuthorNameFor(snapshot.Email()),
	})

	if err != nil {
		slog.Error("error adding comment", "article_id", c.articleID, "error", err)
		c.notify(NoticeError, NoticeAddFailed, err)

		return false
	}

	c.notify(NoticeSuccess, NoticeCommentAdded, nil)

	return true
}

// Update edits a comment of this article. Ownership is decided by the store.
func (c *Comments) Update(ctx context.Context, id, content string) bool {
	if _, err := c.store.Update(ctx, c.articleID, id, c.snapshot().UserID(), strings.TrimSpace(content)); err != nil {
		slog.Warn("error updating comment", "comment_id", id, "error", err)
		c.notify(NoticeError, NoticeUpdateFailed, err)

		return false
	}

	c.notify(NoticeSuccess, NoticeCommentUpdated, nil)

	return true
}

// Delete removes a comment of this article. Ownership is decided by the store.
func (c *Comments) Delete(ctx context.Context, id string) bool {
	if err := c.store.Delete(ctx, c.articleID, id, c.snapshot().UserID()); err != nil {
		slog.Warn("error deleting comment", "comment_id", id, "error", err)
		c.notify(NoticeError, NoticeDeleteFailed, err)

		return false
	}

	c.notify(NoticeSuccess, NoticeCommentDeleted, nil)

	return true
}

// Close tears down both subscriptions and closes Updates. It is idempotent.
func (c *Comments) Close() {
	c.watch.stop()

	c.mu.Lock()
	c.closed = true
	stop := c.authStop
	c.authStop = nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}

	c.updates.close()
}

func (c *Comments) snapshot() session.Snapshot {
	if c.auth == nil {
		return session.Snapshot{}
	}

	return c.auth.Snapshot()
}

func (c *Comments) notify(level NoticeLevel, message string, err error) {
	c.notifier.Notify(Notice{Level: level, Message: message, Err: err})
}

// AuthorNameFor is the attribution stored with a comment: the local part of the email.
func AuthorNameFor(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")

	if local == "" {
		return database.DefaultAuthor
	}

	return local
}
