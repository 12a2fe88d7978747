package live

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/database/repository/queries"
	"github.com/perspective/pkg/session"
)

type fakeArticles struct {
	mu    sync.Mutex
	rows  []database.Article
	err   error
	calls map[string]int
}

func newFakeArticles(rows ...database.Article) *fakeArticles {
	return &fakeArticles{rows: rows, calls: make(map[string]int)}
}

func (f *fakeArticles) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[name]++

	return f.err
}

func (f *fakeArticles) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[name]
}

func (f *fakeArticles) set(rows ...database.Article) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rows = rows
}

func (f *fakeArticles) published(category, excludeID string, limit int) []database.Article {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []database.Article
	for _, row := range f.rows {
		if !row.Published || row.ID == excludeID {
			continue
		}

		if category != "" && !strings.EqualFold(row.Category, category) {
			continue
		}

		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

func (f *fakeArticles) Published(_ context.Context, filters queries.ArticleFilters) ([]database.Article, error) {
	if err := f.record("published"); err != nil {
		return nil, err
	}

	return f.published(filters.GetCategory(), filters.ExcludeID, filters.GetLimit()), nil
}

func (f *fakeArticles) FindPublished(_ context.Context, id string) (*database.Article, error) {
	if err := f.record("find"); err != nil {
		return nil, err
	}

	for _, row := range f.published("", "", 0) {
		if row.ID == id {
			return &row, nil
		}
	}

	return nil, nil
}

func (f *fakeArticles) RelatedByCategory(_ context.Context, category, excludeID string, limit int) ([]database.Article, error) {
	if err := f.record("related"); err != nil {
		return nil, err
	}

	return f.published(category, excludeID, limit), nil
}

func (f *fakeArticles) Latest(_ context.Context, excludeID string, limit int) ([]database.Article, error) {
	if err := f.record("latest"); err != nil {
		return nil, err
	}

	return f.published("", excludeID, limit), nil
}

func article(id, category string, published bool, age time.Duration) database.Article {
	return database.Article{
		ID:        id,
		Title:     "Title " + id,
		Category:  category,
		Author:    database.DefaultAuthor,
		Published: published,
		CreatedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC).Add(-age),
	}
}

type fakeComments struct {
	mu    sync.Mutex
	rows  []database.Comment
	calls int
	err   error
}

func (f *fakeComments) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func (f *fakeComments) ForArticle(_ context.Context, articleID string) ([]database.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	var out []database.Comment
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ArticleID == articleID {
			out = append(out, f.rows[i])
		}
	}

	return out, nil
}

func (f *fakeComments) Create(_ context.Context, attrs database.CommentAttrs) (*database.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	comment := database.Comment{
		ID:         "c" + string(rune('0'+len(f.rows))),
		ArticleID:  attrs.ArticleID,
		UserID:     attrs.UserID,
		Content:    attrs.Content,
		AuthorName: attrs.AuthorName,
	}

	f.rows = append(f.rows, comment)

	return &comment, nil
}

func (f *fakeComments) Update(_ context.Context, articleID, id, userID, content string) (*database.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	for i := range f.rows {
		if f.rows[i].ID != id || f.rows[i].ArticleID != articleID {
			continue
		}

		if f.rows[i].UserID != userID {
			return nil, repository.ErrNotCommentOwner
		}

		f.rows[i].Content = content

		return &f.rows[i], nil
	}

	return nil, repository.ErrNotFound
}

func (f *fakeComments) Delete(_ context.Context, articleID, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	for i := range f.rows {
		if f.rows[i].ID != id || f.rows[i].ArticleID != articleID {
			continue
		}

		if f.rows[i].UserID != userID {
			return repository.ErrNotCommentOwner
		}

		f.rows = append(f.rows[:i], f.rows[i+1:]...)

		return nil
	}

	return repository.ErrNotFound
}

type staticAuth struct {
	mu        sync.Mutex
	snapshot  session.Snapshot
	listeners []func(session.Snapshot)
}

func (s *staticAuth) Snapshot() session.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot
}

func (s *staticAuth) Subscribe(fn func(session.Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)

	return func() {}
}

func (s *staticAuth) set(snapshot session.Snapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	listeners := append([]func(session.Snapshot){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func signedIn(userID, email string) *staticAuth {
	return &staticAuth{snapshot: session.Snapshot{Session: session.Session{UserID: userID, Email: email}}}
}
