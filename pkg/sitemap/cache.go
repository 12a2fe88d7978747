package sitemap

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/pkg/changefeed"
)

// Cache holds the rendered sitemap for the configured base URL.
// Article changes invalidate it; Refresh rebuilds it eagerly.
type Cache struct {
	source  ArticleSource
	baseURL string
	now     func() time.Time

	mu         sync.Mutex
	body       []byte
	generation uint64
}

type Feed interface {
	Subscribe(table string, filter changefeed.Filter) *changefeed.Subscription
}

func NewCache(source ArticleSource, baseURL string) *Cache {
	return &Cache{source: source, baseURL: baseURL, now: time.Now}
}

func (c *Cache) BaseURL() string {
	return c.baseURL
}

// Get returns the cached document, building it when missing.
func (c *Cache) Get(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	body := c.body
	c.mu.Unlock()

	if body != nil {
		return body, nil
	}

	return c.Refresh(ctx)
}

// Refresh rebuilds the document. A build that raced with an invalidation is
// returned but not kept.
func (c *Cache) Refresh(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()

	set, err := Build(ctx, c.source, c.baseURL, c.now())
	if err != nil {
		return nil, err
	}

	body, err := Render(set)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation == generation {
		c.body = body
	}
	c.mu.Unlock()

	return body, nil
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.body = nil
	c.generation++
	c.mu.Unlock()
}

// Watch invalidates the cache on every article change until ctx is done.
func (c *Cache) Watch(ctx context.Context, feed Feed) {
	sub := feed.Subscribe(database.ArticlesTable, changefeed.Filter{})

	go func() {
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C:
				if !ok {
					return
				}

				c.Invalidate()
				slog.Debug("sitemap cache invalidated")
			}
		}
	}()
}
