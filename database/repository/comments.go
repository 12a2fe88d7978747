package repository

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/perspective/database"
	"github.com/perspective/pkg/gorm"
)

type Comments struct {
	DB *database.Connection
}

// ForArticle returns the comments of an article, newest first.
func (c Comments) ForArticle(ctx context.Context, articleID string) ([]database.Comment, error) {
	var comments []database.Comment

	err := c.DB.Sql().
		WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at desc").
		Find(&comments).Error

	if err != nil {
		return nil, fmt.Errorf("issue fetching comments for article [%s]: %w", articleID, err)
	}

	return comments, nil
}

const MaxCommentLength = 5000

// Create stores a comment on a published article.
func (c Comments) Create(ctx context.Context, attrs database.CommentAttrs) (*database.Comment, error) {
	content, err := commentContent(attrs.Content)
	if err != nil {
		return nil, err
	}

	article, err := Articles{DB: c.DB}.FindPublished(ctx, attrs.ArticleID)
	if err != nil {
		return nil, err
	}

	if article == nil {
		return nil, ErrNotFound
	}

	comment := database.Comment{
		ArticleID:  article.ID,
		UserID:     attrs.UserID,
		Content:    content,
		AuthorName: attrs.AuthorName,
	}

	if err := c.DB.Sql().WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("issue creating comment: %w", err)
	}

	return &comment, nil
}

// Update changes the content of a comment on articleID owned by userID.
func (c Comments) Update(ctx context.Context, articleID, id, userID, content string) (*database.Comment, error) {
	content, err := commentContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := c.owned(ctx, articleID, id, userID)
	if err != nil {
		return nil, err
	}

	if err := c.DB.Sql().WithContext(ctx).Model(comment).Update("content", content).Error; err != nil {
		return nil, fmt.Errorf("issue updating comment [%s]: %w", id, err)
	}

	comment.Content = content

	return comment, nil
}

// Delete removes a comment on articleID owned by userID.
func (c Comments) Delete(ctx context.Context, articleID, id, userID string) error {
	comment, err := c.owned(ctx, articleID, id, userID)
	if err != nil {
		return err
	}

	result := c.DB.Sql().
		WithContext(ctx).
		Where("article_id = ? AND user_id = ?", comment.ArticleID, userID).
		Delete(comment)

	if result.Error != nil {
		return fmt.Errorf("issue deleting comment [%s]: %w", id, result.Error)
	}

	return nil
}

// owned finds the comment within articleID; a comment on another article is not found.
func (c Comments) owned(ctx context.Context, articleID, id, userID string) (*database.Comment, error) {
	comment := database.Comment{}

	result := c.DB.Sql().
		WithContext(ctx).
		Where("id = ? AND article_id = ?", id, articleID).
		Limit(1).
		Find(&comment)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue fetching comment [%s]: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	if userID == "" || comment.UserID != userID {
		return nil, ErrNotCommentOwner
	}

	return &comment, nil
}

func commentContent(content string) (string, error) {
	content = strings.TrimSpace(content)

	switch {
	case content == "":
		return "", ErrEmptyComment
	case utf8.RuneCountInString(content) > MaxCommentLength:
		return "", ErrCommentTooLong
	}

	return content, nil
}
