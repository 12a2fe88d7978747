package handler

import (
	"errors"
	"net/http"

	"github.com/perspective/database/repository"
	"github.com/perspective/handler/payload"
	"github.com/perspective/pkg/endpoint"
)

// AdminArticlesHandler manages published articles and drafts. Every mutation
// answers with the reloaded collection.
type AdminArticlesHandler struct {
	Articles repository.Articles
}

func NewAdminArticlesHandler(articles repository.Articles) AdminArticlesHandler {
	return AdminArticlesHandler{Articles: articles}
}

func (h AdminArticlesHandler) Index(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	return h.respondWithAll(w, r, http.StatusOK)
}

func (h AdminArticlesHandler) Store(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	req, apiErr := parseArticleRequest(r)
	if apiErr != nil {
		return apiErr
	}

	if _, err := h.Articles.Create(r.Context(), req.Attrs()); err != nil {
		return articleError(err)
	}

	return h.respondWithAll(w, r, http.StatusCreated)
}

func (h AdminArticlesHandler) Update(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	req, apiErr := parseArticleRequest(r)
	if apiErr != nil {
		return apiErr
	}

	if _, err := h.Articles.Update(r.Context(), pathID(r, "id"), req.Attrs()); err != nil {
		return articleError(err)
	}

	return h.respondWithAll(w, r, http.StatusOK)
}

func (h AdminArticlesHandler) Destroy(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	if err := h.Articles.Delete(r.Context(), pathID(r, "id")); err != nil {
		return articleError(err)
	}

	return h.respondWithAll(w, r, http.StatusOK)
}

func (h AdminArticlesHandler) TogglePublished(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	if _, err := h.Articles.TogglePublished(r.Context(), pathID(r, "id")); err != nil {
		return articleError(err)
	}

	return h.respondWithAll(w, r, http.StatusOK)
}

// Featured replaces the featured selection with the given ids, in order.
func (h AdminArticlesHandler) Featured(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	req, closer, err := endpoint.ParseRequestBody[payload.FeaturedRequest](r)
	closer()

	if err != nil {
		return endpoint.LogBadRequestError("could not read the featured selection", err)
	}

	if apiErr := validate(req); apiErr != nil {
		return apiErr
	}

	if err := h.Articles.SetFeatured(r.Context(), req.IDs); err != nil {
		return endpoint.LogInternalError("could not update the featured selection", err)
	}

	return h.respondWithAll(w, r, http.StatusOK)
}

func (h AdminArticlesHandler) respondWithAll(w http.ResponseWriter, r *http.Request, status int) *endpoint.ApiError {
	articles, err := h.Articles.All(r.Context())
	if err != nil {
		return endpoint.LogInternalError("Error getting articles", err)
	}

	return respond(w, r, status, payload.MapAdminArticles(articles))
}

func parseArticleRequest(r *http.Request) (payload.ArticleRequest, *endpoint.ApiError) {
	req, closer, err := endpoint.ParseRequestBody[payload.ArticleRequest](r)
	closer()

	if err != nil {
		return req, endpoint.LogBadRequestError("could not read the article", err)
	}

	if apiErr := validate(req); apiErr != nil {
		return req, apiErr
	}

	return req, nil
}

func articleError(err error) *endpoint.ApiError {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return endpoint.NotFound("Article not found")
	case errors.Is(err, repository.ErrTitleRequired):
		return endpoint.UnprocessableEntity("The given data is invalid", map[string]any{"title": "is required"})
	default:
		return endpoint.LogInternalError("could not save the article", err)
	}
}
