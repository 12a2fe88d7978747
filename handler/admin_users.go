package handler

import (
	"errors"
	"net/http"

	"github.com/perspective/database/repository"
	"github.com/perspective/handler/payload"
	"github.com/perspective/pkg/endpoint"
	"github.com/perspective/pkg/middleware"
)

type AdminUsersHandler struct {
	Roles repository.UserRoles
}

func NewAdminUsersHandler(roles repository.UserRoles) AdminUsersHandler {
	return AdminUsersHandler{Roles: roles}
}

func (h AdminUsersHandler) Index(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	return h.respondWithAll(w, r)
}

// UpdateRole changes another user's role. Admins cannot change their own.
func (h AdminUsersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	req, closer, err := endpoint.ParseRequestBody[payload.RoleRequest](r)
	closer()

	if err != nil {
		return endpoint.LogBadRequestError("could not read the role", err)
	}

	if apiErr := validate(req); apiErr != nil {
		return apiErr
	}

	actorID := middleware.SnapshotFrom(r.Context()).UserID()

	_, err = h.Roles.UpdateRole(r.Context(), actorID, pathID(r, "id"), req.Role)

	switch {
	case errors.Is(err, repository.ErrSelfRoleChange):
		return endpoint.Conflict("You cannot change your own role", err)
	case errors.Is(err, repository.ErrInvalidRole):
		return endpoint.UnprocessableEntity("The given data is invalid", map[string]any{"role": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return endpoint.NotFound("User not found")
	case err != nil:
		return endpoint.LogInternalError("could not update the role", err)
	}

	return h.respondWithAll(w, r)
}

func (h AdminUsersHandler) respondWithAll(w http.ResponseWriter, r *http.Request) *endpoint.ApiError {
	roles, err := h.Roles.All(r.Context())
	if err != nil {
		return endpoint.LogInternalError("Error getting user roles", err)
	}

	return respond(w, r, http.StatusOK, payload.MapUserRoles(roles))
}
