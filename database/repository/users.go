package repository

import (
	"context"
	"fmt"

	"github.com/perspective/database"
	"github.com/perspective/pkg/gorm"
	baseGorm "gorm.io/gorm"
)

type Users struct {
	DB *database.Connection
}

// FindByEmail returns nil when no user owns the email.
func (u Users) FindByEmail(ctx context.Context, email string) (*database.User, error) {
	user := database.User{}

	result := u.DB.Sql().WithContext(ctx).Where("email = ?", NormaliseEmail(email)).Limit(1).Find(&user)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue fetching user [%s]: %w", email, result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, nil
	}

	return &user, nil
}

func (u Users) Find(ctx context.Context, id string) (*database.User, error) {
	user := database.User{}

	result := u.DB.Sql().WithContext(ctx).Where("id = ?", id).First(&user)

	if gorm.IsNotFound(result.Error) {
		return nil, ErrNotFound
	}

	if result.Error != nil {
		return nil, fmt.Errorf("issue fetching user [%s]: %w", id, result.Error)
	}

	return &user, nil
}

// Create stores the user together with its role row. Role defaults to "user".
func (u Users) Create(ctx context.Context, attrs database.UserAttrs) (*database.User, error) {
	role := attrs.Role
	if role == "" {
		role = database.RoleUser
	}

	if role != database.RoleAdmin && role != database.RoleUser {
		return nil, ErrInvalidRole
	}

	user := database.User{
		Email:        NormaliseEmail(attrs.Email),
		PasswordHash: attrs.PasswordHash,
	}

	err := u.DB.Transaction(ctx, func(tx *baseGorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		return tx.Create(&database.UserRole{UserID: user.ID, Role: role}).Error
	})

	if gorm.IsUniqueViolation(err) {
		return nil, ErrEmailTaken
	}

	if err != nil {
		return nil, fmt.Errorf("issue creating user [%s]: %w", user.Email, err)
	}

	return &user, nil
}

func (u Users) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := u.DB.Sql().WithContext(ctx).Model(&database.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("issue counting users: %w", err)
	}

	return count, nil
}
