package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/sitemap"
)

const sitemapCacheControl = "public, max-age=3600"

type SitemapHandler struct {
	Cache  *sitemap.Cache
	Source sitemap.ArticleSource
}

func NewSitemapHandler(cache *sitemap.Cache, source sitemap.ArticleSource) SitemapHandler {
	return SitemapHandler{
		Cache:  cache,
		Source: source,
	}
}

// Handle serves the sitemap. The configured base URL is served from the cache;
// a ?baseUrl= override is built on demand. Only successful documents are cacheable.
func (h SitemapHandler) Handle(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	baseURL := strings.TrimSpace(r.URL.Query().Get("baseUrl"))

	if baseURL != "" {
		if _, err := sitemap.NormaliseBaseURL(baseURL); err != nil {
			return endpoint.BadRequestError("baseUrl must be an absolute http(s) url")
		}
	}

	body, err := h.document(r.Context(), baseURL)

	if err != nil {
		slog.Error("sitemap generation failed", "error", err)

		if writeErr := writeDocument(w, r, http.StatusInternalServerError, sitemap.ContentType, sitemap.Empty()); writeErr != nil {
			slog.Error("could not write the empty sitemap", "error", writeErr)
		}

		return nil
	}

	w.Header().Set("Cache-Control", sitemapCacheControl)

	if err := writeDocument(w, r, http.StatusOK, sitemap.ContentType, body); err != nil {
		slog.Error("could not write the sitemap", "error", err)
	}

	return nil
}

func (h SitemapHandler) document(ctx context.Context, baseURL string) ([]byte, error) {
	if baseURL == "" || strings.TrimRight(baseURL, "/") == h.Cache.BaseURL() {
		return h.Cache.Get(ctx)
	}

	set, err := sitemap.Build(ctx, h.Source, baseURL, time.Now())
	if err != nil {
		return nil, err
	}

	return sitemap.Render(set)
}
