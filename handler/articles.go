package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/perspective/database/repository"
	"github.com/perspective/database/repository/queries"
	"github.com/perspective/handler/payload"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/live"
)

type ArticlesHandler struct {
	Articles repository.Articles
	Feed     live.Feed
}

func NewArticlesHandler(articles repository.Articles, feed live.Feed) ArticlesHandler {
	return ArticlesHandler{
		Articles: articles,
		Feed:     feed,
	}
}

// Index lists the published articles, optionally for one category.
func (h ArticlesHandler) Index(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	view := live.NewArticles(h.Articles, h.Feed, r.URL.Query().Get("category"))
	defer view.Close()

	state := view.Load(r.Context())

	if state.Error != "" {
		return endpoint.InternalError("Error getting articles")
	}

	return respond(w, r, http.StatusOK, payload.ArticlesResponse{
		Articles: state.Articles,
		Category: state.Category,
	})
}

// Stream pushes a fresh listing every time the articles table changes.
func (h ArticlesHandler) Stream(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	view := live.NewArticles(h.Articles, h.Feed, r.URL.Query().Get("category"))
	defer view.Close()

	stream, apiErr := endpoint.NewStream(w)
	if apiErr != nil {
		return apiErr
	}

	defer trackStream("articles")()

	view.Start(r.Context())

	if err := endpoint.Pump(r.Context(), stream, view.Updates(), 0); err != nil {
		slog.Warn("articles stream ended", "error", err)
	}

	return nil
}

func (h ArticlesHandler) Featured(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	rows, err := h.Articles.Featured(r.Context())
	if err != nil {
		return endpoint.LogInternalError("Error getting featured articles", err)
	}

	return respond(w, r, http.StatusOK, payload.ArticlesResponse{
		Articles: live.MapArticles(rows),
	})
}

func (h ArticlesHandler) Show(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	article, err := live.FindArticle(r.Context(), h.Articles, pathID(r, "id"))

	if errors.Is(err, live.ErrArticleNotFound) {
		return endpoint.NotFound("Article not found")
	}

	if err != nil {
		return endpoint.LogInternalError("Error getting the article", err)
	}

	return respond(w, r, http.StatusOK, payload.ArticleResponse{Article: article})
}

// Related lists articles of the same category, falling back to the newest ones.
func (h ArticlesHandler) Related(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	article, err := live.FindArticle(r.Context(), h.Articles, pathID(r, "id"))

	if errors.Is(err, live.ErrArticleNotFound) {
		return endpoint.NotFound("Article not found")
	}

	if err != nil {
		return endpoint.LogInternalError("Error getting the article", err)
	}

	related, err := live.Related(r.Context(), h.Articles, article.ID, article.Category, queryInt(r, "limit"))
	if err != nil {
		return endpoint.LogInternalError("Error getting related articles", err)
	}

	return respond(w, r, http.StatusOK, payload.ArticlesResponse{Articles: related})
}

// Search matches published articles by text and category.
func (h ArticlesHandler) Search(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	query := r.URL.Query()
	filters := queries.ArticleFilters{
		Text:     query.Get("q"),
		Category: searchCategory(query.Get("category")),
	}

	rows, err := h.Articles.Published(r.Context(), filters)
	if err != nil {
		return endpoint.LogInternalError("Error searching articles", err)
	}

	return respond(w, r, http.StatusOK, payload.ArticlesResponse{
		Articles: live.MapArticles(rows),
		Category: filters.GetCategory(),
	})
}

// searchCategory maps the search form's "All" choice to no category filter.
func searchCategory(seed string) string {
	if strings.EqualFold(strings.TrimSpace(seed), "all") {
		return ""
	}

	return seed
}
