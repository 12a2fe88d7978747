package live

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/perspective/database"
	"github.com/perspective/database/repository/queries"
	"github.com/perspective/pkg/changefeed"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultRelatedLimit = 3
	MaxRelatedLimit     = 12
)

var ErrArticleNotFound = errors.New("article not found")

type ArticleStore interface {
	Published(ctx context.Context, filters queries.ArticleFilters) ([]database.Article, error)
	FindPublished(ctx context.Context, id string) (*database.Article, error)
	RelatedByCategory(ctx context.Context, category, excludeID string, limit int) ([]database.Article, error)
	Latest(ctx context.Context, excludeID string, limit int) ([]database.Article, error)
}

type ArticlesState struct {
	Articles []ArticleDisplay `json:"articles"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
	Category string           `json:"category,omitempty"`
	Version  uint64           `json:"version"`
}

// Articles is the live listing of published articles for one category filter.
// Every change on the articles table triggers a full refetch.
type Articles struct {
	store ArticleStore
	feed  Feed

	mu       sync.RWMutex
	category string
	state    ArticlesState
	issued   uint64
	applied  uint64
	closed   bool

	watch   watcher
	updates *latest[ArticlesState]
}

func NewArticles(store ArticleStore, feed Feed, category string) *Articles {
	category = strings.TrimSpace(category)

	return &Articles{
		store:    store,
		feed:     feed,
		category: category,
		state:    ArticlesState{Articles: []ArticleDisplay{}, Loading: true, Category: category},
		updates:  newLatest[ArticlesState](),
	}
}

// Load performs one fetch and returns the resulting state.
func (a *Articles) Load(ctx context.Context) ArticlesState {
	a.mu.Lock()
	a.issued++
	seq := a.issued
	category := a.category
	a.mu.Unlock()

	ctx, span := tracer.Start(ctx, "live.articles.refetch")
	span.SetAttributes(attribute.String("category", category))
	defer span.End()

	rows, err := a.store.Published(ctx, queries.ArticleFilters{Category: category})
	observeRefetch("articles", err)

	next := ArticlesState{Category: category, Articles: MapArticles(rows)}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("articles refetch failed", "category", category, "error", err)

		next = ArticlesState{Category: category, Articles: []ArticleDisplay{}, Error: err.Error()}
	}

	return a.apply(seq, next)
}

// Start follows the articles table until ctx is done or Close is called.
func (a *Articles) Start(ctx context.Context) {
	a.watch.start(ctx, a.feed, database.ArticlesTable, changefeed.Filter{}, func(ctx context.Context) {
		if ctx.Err() == nil {
			a.Load(ctx)
		}
	})
}

// SetCategory tears down the current subscription, then refetches and re-subscribes.
func (a *Articles) SetCategory(ctx context.Context, category string) {
	a.watch.stop()

	a.mu.Lock()
	a.category = strings.TrimSpace(category)
	a.mu.Unlock()

	a.Start(ctx)
}

func (a *Articles) State() ArticlesState {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.state
}

// Updates delivers every applied state. Unread states are replaced by newer ones.
func (a *Articles) Updates() <-chan ArticlesState {
	return a.updates.C()
}

// Close stops following changes and closes Updates. It is idempotent.
func (a *Articles) Close() {
	a.watch.stop()

	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.updates.close()
}

// apply keeps the result of the most recently issued fetch; older results are dropped.
func (a *Articles) apply(seq uint64, next ArticlesState) ArticlesState {
	a.mu.Lock()

	if seq <= a.applied || a.closed {
		state := a.state
		a.mu.Unlock()

		return state
	}

	a.applied = seq
	next.Version = seq
	a.state = next
	a.mu.Unlock()

	a.updates.send(next)

	return next
}

// FindArticle returns the published article with the given id.
func FindArticle(ctx context.Context, store ArticleStore, id string) (ArticleDisplay, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ArticleDisplay{}, ErrArticleNotFound
	}

	article, err := store.FindPublished(ctx, id)
	if err != nil {
		return ArticleDisplay{}, err
	}

	if article == nil {
		return ArticleDisplay{}, ErrArticleNotFound
	}

	return MapArticle(*article), nil
}

// Related returns up to limit published articles sharing the category, excluding id.
// Only when none share it does it fall back to the newest articles of any category.
func Related(ctx context.Context, store ArticleStore, id, category string, limit int) ([]ArticleDisplay, error) {
	id = strings.TrimSpace(id)
	category = strings.TrimSpace(category)

	if id == "" || category == "" {
		return []ArticleDisplay{}, nil
	}

	limit = ClampRelatedLimit(limit)

	ctx, span := tracer.Start(ctx, "live.articles.related")
	span.SetAttributes(attribute.String("category", category), attribute.Int("limit", limit))
	defer span.End()

	rows, err := store.RelatedByCategory(ctx, category, id, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if len(rows) > 0 {
		return MapArticles(rows), nil
	}

	span.SetAttributes(attribute.Bool("fallback", true))

	rows, err = store.Latest(ctx, id, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return MapArticles(rows), nil
}

func ClampRelatedLimit(limit int) int {
	if limit <= 0 {
		return DefaultRelatedLimit
	}

	if limit > MaxRelatedLimit {
		return MaxRelatedLimit
	}

	return limit
}
