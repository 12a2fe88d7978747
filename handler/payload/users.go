package payload

import (
	"time"

	"github.com/perspective/database"
)

type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

type UserRole struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRolesResponse struct {
	Roles []UserRole `json:"roles"`
}

func MapUserRoles(rows []database.UserRole) UserRolesResponse {
	out := make([]UserRole, 0, len(rows))

	for _, row := range rows {
		out = append(out, UserRole{
			ID:        row.ID,
			UserID:    row.UserID,
			Role:      row.Role,
			CreatedAt: row.CreatedAt,
		})
	}

	return UserRolesResponse{Roles: out}
}
