package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/database/repository/queries"
)

func TestArticlesPublishedFiltersAndOrders(t *testing.T) {
	conn := newSQLiteConnection(t)
	repo := repository.Articles{DB: conn}
	now := time.Now().UTC()

	old := seedArticle(t, conn, "Old trip", "Travel", true, now.Add(-48*time.Hour))
	recent := seedArticle(t, conn, "New trip", "travel", true, now.Add(-time.Hour))
	seedArticle(t, conn, "Draft trip", "travel", false, now)
	calm := seedArticle(t, conn, "Calm", "wellness", true, now.Add(-2*time.Hour))

	all, err := repo.Published(t.Context(), queries.ArticleFilters{})
	if err != nil {
		t.Fatalf("published: %v", err)
	}

	if !sameIDs(all, recent.ID, calm.ID, old.ID) {
		t.Fatalf("unexpected order %v", ids(all))
	}

	travel, err := repo.Published(t.Context(), queries.ArticleFilters{Category: "TRAVEL"})
	if err != nil {
		t.Fatalf("published travel: %v", err)
	}

	if !sameIDs(travel, recent.ID, old.ID) {
		t.Fatalf("expected case-insensitive category match, got %v", ids(travel))
	}

	newest, err := repo.Published(t.Context(), queries.ArticleFilters{Limit: 1})
	if err != nil {
		t.Fatalf("published newest: %v", err)
	}

	if !sameIDs(newest, recent.ID) {
		t.Fatalf("expected newest article only, got %v", ids(newest))
	}

	literal, err := repo.Published(t.Context(), queries.ArticleFilters{Category: "All"})
	if err != nil {
		t.Fatalf("published literal all: %v", err)
	}

	if len(literal) != 0 {
		t.Fatalf("expected no article in category all, got %v", ids(literal))
	}
}

func TestArticlesPublishedSearchesText(t *testing.T) {
	conn := newSQLiteConnection(t)
	repo := repository.Articles{DB: conn}
	now := time.Now().UTC()

	match := seedArticle(t, conn, "Slow Mornings", "lifestyle", true, now)
	seedArticle(t, conn, "Budget basics", "financing", true, now.Add(-time.Hour))
	seedArticle(t, conn, "Slow draft", "lifestyle", false, now)

	found, err := repo.Published(t.Context(), queries.ArticleFilters{Text: "slow"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if !sameIDs(found, match.ID) {
		t.Fatalf("expected only the published match, got %v", ids(found))
	}

	none, err := repo.Published(t.Context(), queries.ArticleFilters{Text: "100%"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(none) != 0 {
		t.Fatalf("expected wildcard characters to be literal, got %v", ids(none))
	}
}

func TestArticlesFindPublished(t *testing.T) {
	conn := newSQLiteConnection(t)
	repo := repository.Articles{DB: conn}

	published := seedArticle(t, conn, "Visible", "general", true, time.Now())
	draft := seedArticle(t, conn, "Hidden", "general", false, time.Now())

	found, err := repo.FindPublished(t.Context(), published.ID)
	if err != nil || found == nil || found.ID != published.ID {
		t.Fatalf("expected published article, got %v %v", found, err)
	}

	for _, id := range []string{draft.ID, "missing"} {
		found, err := repo.FindPublished(t.Context(), id)
		if err != nil || found != nil {
			t.Fatalf("expected nil for %s, got %v %v", id, found, err)
		}
	}
}

func TestArticlesRelatedAndLatestExcludeCurrent(t *testing.T) {
	conn := newSQLiteConnection(t)
	repo := repository.Articles{DB: conn}
	now := time.Now().UTC()

	a1 := seedArticle(t, conn, "A1", "travel", true, now)
	a2 := seedArticle(t, conn, "A2", "travel", true, now.Add(-time.Hour))
	a3 := seedArticle(t, conn, "A3", "wellness", true, now.Add(-2*time.Hour))

	related, err := repo.RelatedByCategory(t.Context(), "Travel", a1.ID, 3)
	if err != nil {
		t.Fatalf("related: %v", err)
	}

	if !sameIDs(related, a2.ID) {
		t.Fatalf("expected [a2], got %v", ids(related))
	}

	latest, err := repo.Latest(t.Context(), a1.ID, 3)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}

	if !sameIDs(latest, a2.ID, a3.ID) {
		t.Fatalf("expected [a2 a3], got %v", ids(latest))
	}
}

func TestArticlesCreateAppliesDefaults(t *testing.T) {
	conn := newSQLiteConnection(t)
	repo := repository.Articles{DB: conn}

	if _, err := repo.Create(t.Context(), database.ArticleAttrs{Title: "   "}); !errors.Is(err, repository.ErrTitleRequired) {
		t.Fatalf("expected title required, got %v", err)
	}

	article, err := repo.Create(t.Context(), database.ArticleAttrs{Title: "  Plain  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if article.Title != "Plain" || article.Category != database.DefaultCategory || article.Author != database.DefaultAuthor {
		t.Fatalf("unexpected defaults: %+v", article)
	}

	if article.ReadTime == nil || *article.ReadTime != database.DefaultReadTime {
		t.Fatalf("expected default read time, got %v", article.ReadTime)
	}

	if article.Published || article.Excerpt != nil {
		t.Fatalf("expected unpublished article without excerpt: %+v", article)
	}
}

func TestArticlesUpdateAndDelete(t *testing.T) {
	conn := newSQLiteConnection(t)
	repo := repository.Articles{DB: conn}

	article := seedArticle(t, conn, "Before", "general", false, time.Now())

	updated, err := repo.Update(t.Context(), article.ID, database.ArticleAttrs{
		Title:     "After",
		Category:  "growth",
		Content:   "body",
		Published: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "After" || updated.Category != "growth" || !updated.Published || updated.Content == nil {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if _, err := repo.Update(t.Context(), "missing", database.ArticleAttrs{Title: "x"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := repo.Delete(t.Context(), article.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.Find(t.Context(), article.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected deleted article to be gone, got %v", err)
	}

	if err := repo.Delete(t.Context(), article.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestArticlesTogglePublishedTwiceRestores(t *testing.T) {
	conn := newSQLiteConnection(t)
	repo := repository.Articles{DB: conn}

	article := seedArticle(t, conn, "Toggle", "general", true, time.Now())

	first, err := repo.TogglePublished(t.Context(), article.ID)
	if err != nil || first.Published {
		t.Fatalf("expected unpublished after first toggle, got %+v %v", first, err)
	}

	second, err := repo.TogglePublished(t.Context(), article.ID)
	if err != nil || !second.Published {
		t.Fatalf("expected published after second toggle, got %+v %v", second, err)
	}

	if second.Title != article.Title || second.Category != article.Category {
		t.Fatalf("toggle changed other fields: %+v", second)
	}
}

func TestArticlesSetFeaturedReplacesSelection(t *testing.T) {
	conn := newSQLiteConnection(t)
	repo := repository.Articles{DB: conn}
	now := time.Now().UTC()

	a := seedArticle(t, conn, "A", "general", true, now)
	b := seedArticle(t, conn, "B", "general", true, now.Add(-time.Hour))
	c := seedArticle(t, conn, "C", "general", true, now.Add(-2*time.Hour))
	draft := seedArticle(t, conn, "Draft", "general", false, now)

	if err := repo.SetFeatured(t.Context(), []string{a.ID, b.ID}); err != nil {
		t.Fatalf("set featured: %v", err)
	}

	if err := repo.SetFeatured(t.Context(), []string{c.ID, draft.ID, a.ID}); err != nil {
		t.Fatalf("set featured: %v", err)
	}

	featured, err := repo.Featured(t.Context())
	if err != nil {
		t.Fatalf("featured: %v", err)
	}

	if !sameIDs(featured, c.ID, a.ID) {
		t.Fatalf("expected [c a], got %v", ids(featured))
	}
}
