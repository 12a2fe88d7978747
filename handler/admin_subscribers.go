package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/perspective/database/repository"
	"github.com/perspective/handler/payload"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/export"
)

type AdminSubscribersHandler struct {
	Subscribers repository.Subscribers
	now         func() time.Time
}

func NewAdminSubscribersHandler(subscribers repository.Subscribers) AdminSubscribersHandler {
	return AdminSubscribersHandler{Subscribers: subscribers, now: time.Now}
}

func (h AdminSubscribersHandler) Index(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	return h.respondWithAll(w, r)
}

func (h AdminSubscribersHandler) Toggle(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	if _, err := h.Subscribers.Toggle(r.Context(), pathID(r, "id")); err != nil {
		return subscriberError(err)
	}

	return h.respondWithAll(w, r)
}

func (h AdminSubscribersHandler) Destroy(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	if err := h.Subscribers.Delete(r.Context(), pathID(r, "id")); err != nil {
		return subscriberError(err)
	}

	return h.respondWithAll(w, r)
}

// Export downloads every subscriber as CSV.
func (h AdminSubscribersHandler) Export(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	rows, err := h.Subscribers.List(r.Context())
	if err != nil {
		return endpoint.LogInternalError("Error getting subscribers", err)
	}

	var buf bytes.Buffer

	if err := export.WriteSubscribers(&buf, rows); err != nil {
		if errors.Is(err, export.ErrNoSubscribers) {
			return endpoint.NotFound("There are no subscribers to export.")
		}

		return endpoint.LogInternalError("could not export the subscribers", err)
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.SubscribersFilename(h.now())))
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(buf.Bytes())

	return nil
}

func (h AdminSubscribersHandler) respondWithAll(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	rows, err := h.Subscribers.List(r.Context())
	if err != nil {
		return endpoint.LogInternalError("Error getting subscribers", err)
	}

	return respond(w, r, http.StatusOK, payload.MapSubscribers(rows))
}

func subscriberError(err error) *endpoint.ApiError {
	if errors.Is(err, repository.ErrNotFound) {
		return endpoint.NotFound("Subscriber not found")
	}

	return endpoint.LogInternalError("could not update the subscriber", err)
}
