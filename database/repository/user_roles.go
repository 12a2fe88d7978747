package repository

import (
	"context"
	"fmt"

	"github.com/perspective/database"
	"github.com/perspective/pkg/gorm"
)

type UserRoles struct {
	DB *database.Connection
}

// FindFor returns nil when the user has no role row.
func (r UserRoles) FindFor(ctx context.Context, userID string) (*database.UserRole, error) {
	role := database.UserRole{}

	result := r.DB.Sql().WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&role)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue fetching role for user [%s]: %w", userID, result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, nil
	}

	return &role, nil
}

func (r UserRoles) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	role, err := r.FindFor(ctx, userID)
	if err != nil || role == nil {
		return false, err
	}

	return role.IsAdmin(), nil
}

// All returns every role row, newest first.
func (r UserRoles) All(ctx context.Context) ([]database.UserRole, error) {
	var roles []database.UserRole

	if err := r.DB.Sql().WithContext(ctx).Order("created_at desc").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("issue fetching user roles: %w", err)
	}

	return roles, nil
}

// UpdateRole sets the role of userID on behalf of actorID, who may not target themselves.
func (r UserRoles) UpdateRole(ctx context.Context, actorID, userID, role string) (*database.UserRole, error) {
	if actorID == userID {
		return nil, ErrSelfRoleChange
	}

	if role != database.RoleAdmin && role != database.RoleUser {
		return nil, ErrInvalidRole
	}

	current, err := r.FindFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if current == nil {
		return nil, ErrNotFound
	}

	if err := r.DB.Sql().WithContext(ctx).Model(current).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("issue updating role for user [%s]: %w", userID, err)
	}

	current.Role = role

	return current, nil
}
