package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/feeds"
)

type FeedHandler struct {
	Source feeds.ArticleSource
	Site   feeds.Site
}

func NewFeedHandler(source feeds.ArticleSource, site feeds.Site) FeedHandler {
	return FeedHandler{
		Source: source,
		Site:   site,
	}
}

func (h FeedHandler) Handle(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	feed, err := feeds.Build(r.Context(), h.Source, h.Site, time.Now())
	if err != nil {
		return endpoint.LogInternalError("could not build the feed", err)
	}

	body, err := feeds.Render(feed)
	if err != nil {
		return endpoint.LogInternalError("could not render the feed", err)
	}

	w.Header().Set("Cache-Control", "public, max-age=900")

	if err := writeDocument(w, r, http.StatusOK, feeds.ContentType, body); err != nil {
		slog.Error("could not write the feed", "error", err)
	}

	return nil
}
