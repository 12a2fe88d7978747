package handler

import (
	"net/http"

	"github.com/perspective/database/repository"
	"github.com/perspective/handler/payload"
	"github.com/perspective/pkg/endpoint"
)

type NewsletterHandler struct {
	Subscribers repository.Subscribers
}

func NewNewsletterHandler(subscribers repository.Subscribers) NewsletterHandler {
	return NewsletterHandler{Subscribers: subscribers}
}

// Subscribe adds the email to the mailing list. An email already on the
// list is reported, not rejected.
func (h NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	req, closer, err := endpoint.ParseRequestBody[payload.SubscribeRequest](r)
	closer()

	if err != nil {
		return endpoint.LogBadRequestError("could not read the subscription", err)
	}

	req.Email = repository.NormaliseEmail(req.Email)

	if apiErr := validate(req); apiErr != nil {
		return apiErr
	}

	result, err := h.Subscribers.Subscribe(r.Context(), req.Email)
	if err != nil {
		return endpoint.LogInternalError("could not subscribe", err)
	}

	if result.AlreadySubscribed {
		return respond(w, r, http.StatusOK, payload.SubscribeResponse{
			Message:           payload.MessageAlreadySubscribed,
			AlreadySubscribed: true,
		})
	}

	return respond(w, r, http.StatusCreated, payload.SubscribeResponse{Message: payload.MessageSubscribed})
}
