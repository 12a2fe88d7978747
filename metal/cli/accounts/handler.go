package accounts

import (
	"context"
	"fmt"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/pkg/auth"
	"github.com/perspective/pkg/cli"
)

type Handler struct {
	Users repository.Users
}

func NewHandler(db *database.Connection) Handler {
	return Handler{Users: repository.Users{DB: db}}
}

// CreateAdmin stores a new account that holds the admin role from the start.
func (h Handler) CreateAdmin(ctx context.Context, email, password string) (*database.User, error) {
	hash, err := auth.MakePassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash the password for [%s]: %w", email, err)
	}

	user, err := h.Users.Create(ctx, database.UserAttrs{
		Email:        email,
		PasswordHash: hash.GetHash(),
		Role:         database.RoleAdmin,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create admin [%s]: %w", email, err)
	}

	cli.Successln("\nThe admin account has been created successfully!\n")
	cli.Blueln("   > " + fmt.Sprintf("Email: %s", user.Email))
	cli.Blueln("   > " + fmt.Sprintf("User ID: %s", user.ID))
	fmt.Println(" ")

	return user, nil
}
