package handler

import (
	"net/http"
	"time"

	"github.com/perspective/database/repository"
	"github.com/perspective/pkg/dashboard"
	"github.com/perspective/pkg/endpoint"
)

type DashboardHandler struct {
	Articles    repository.Articles
	Subscribers repository.Subscribers
	Roles       repository.UserRoles
}

func NewDashboardHandler(articles repository.Articles, subscribers repository.Subscribers, roles repository.UserRoles) DashboardHandler {
	return DashboardHandler{
		Articles:    articles,
		Subscribers: subscribers,
		Roles:       roles,
	}
}

func (h DashboardHandler) Handle(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	articles, err := h.Articles.All(r.Context())
	if err != nil {
		return endpoint.LogInternalError("Error getting articles", err)
	}

	subscribers, err := h.Subscribers.List(r.Context())
	if err != nil {
		return endpoint.LogInternalError("Error getting subscribers", err)
	}

	roles, err := h.Roles.All(r.Context())
	if err != nil {
		return endpoint.LogInternalError("Error getting user roles", err)
	}

	return respond(w, r, http.StatusOK, dashboard.Build(articles, subscribers, roles, time.Now()))
}
