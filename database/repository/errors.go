package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrTitleRequired   = errors.New("title required")
	ErrEmptyComment    = errors.New("comment content is empty")
	ErrCommentTooLong  = errors.New("comment content is too long")
	ErrNotCommentOwner = errors.New("comment belongs to another user")
	ErrSelfRoleChange  = errors.New("you cannot change your own role")
	ErrInvalidRole     = errors.New("role must be admin or user")
	ErrEmailTaken      = errors.New("email is already registered")
)
