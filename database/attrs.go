package database

import "time"

type ArticleAttrs struct {
	ID        string
	Title     string
	Category  string
	Excerpt   string
	Content   string
	Author    string
	ImageURL  string
	ReadTime  string
	Published bool
	CreatedAt *time.Time
}

type CommentAttrs struct {
	ArticleID  string
	UserID     string
	Content    string
	AuthorName string
}

type UserAttrs struct {
	Email        string
	PasswordHash string
	Role         string
}
