package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/perspective/database"
	"github.com/perspective/database/repository/queries"
	"github.com/perspective/pkg/gorm"
	baseGorm "gorm.io/gorm"
)

type Articles struct {
	DB *database.Connection
}

// Published returns the public articles matching filters, newest first.
func (a Articles) Published(ctx context.Context, filters queries.ArticleFilters) ([]database.Article, error) {
	var articles []database.Article

	query := queries.PublishedOnly(a.DB.Sql().WithContext(ctx).Model(&database.Article{}))
	query = queries.ApplyArticleFilters(&filters, query)

	if err := query.Order("articles.created_at desc").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("issue fetching published articles: %w", err)
	}

	return articles, nil
}

// FindPublished returns nil when the article does not exist or is not published.
func (a Articles) FindPublished(ctx context.Context, id string) (*database.Article, error) {
	article := database.Article{}

	result := a.DB.Sql().
		WithContext(ctx).
		Where("id = ? AND published = ?", id, true).
		Limit(1).
		Find(&article)

	if gorm.HasDbIssues(result.Error) {
		return nil, fmt.Errorf("issue fetching article [%s]: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, nil
	}

	return &article, nil
}

// RelatedByCategory returns published articles in category, excluding excludeID, newest first.
func (a Articles) RelatedByCategory(ctx context.Context, category, excludeID string, limit int) ([]database.Article, error) {
	return a.Published(ctx, queries.ArticleFilters{Category: category, Limit: limit}.Excluding(excludeID))
}

// Latest returns the newest published articles of any category, excluding excludeID.
func (a Articles) Latest(ctx context.Context, excludeID string, limit int) ([]database.Article, error) {
	return a.Published(ctx, queries.ArticleFilters{Limit: limit}.Excluding(excludeID))
}

// Featured returns the published featured selection in display order.
func (a Articles) Featured(ctx context.Context) ([]database.Article, error) {
	var articles []database.Article

	err := queries.PublishedOnly(a.DB.Sql().WithContext(ctx).Model(&database.Article{})).
		Where("articles.featured = ?", true).
		Order("articles.featured_order asc").
		Order("articles.created_at desc").
		Find(&articles).Error

	if err != nil {
		return nil, fmt.Errorf("issue fetching featured articles: %w", err)
	}

	return articles, nil
}

// RecentlyUpdated returns every published article, most recently updated first.
func (a Articles) RecentlyUpdated(ctx context.Context) ([]database.Article, error) {
	var articles []database.Article

	err := queries.PublishedOnly(a.DB.Sql().WithContext(ctx).Model(&database.Article{})).
		Order("articles.updated_at desc").
		Find(&articles).Error

	if err != nil {
		return nil, fmt.Errorf("issue fetching updated articles: %w", err)
	}

	return articles, nil
}

// All returns published articles and drafts, newest first.
func (a Articles) All(ctx context.Context) ([]database.Article, error) {
	var articles []database.Article

	if err := a.DB.Sql().WithContext(ctx).Order("created_at desc").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("issue fetching articles: %w", err)
	}

	return articles, nil
}

func (a Articles) Find(ctx context.Context, id string) (*database.Article, error) {
	article := database.Article{}

	result := a.DB.Sql().WithContext(ctx).Where("id = ?", id).First(&article)

	if gorm.IsNotFound(result.Error) {
		return nil, ErrNotFound
	}

	if result.Error != nil {
		return nil, fmt.Errorf("issue fetching article [%s]: %w", id, result.Error)
	}

	return &article, nil
}

func (a Articles) Create(ctx context.Context, attrs database.ArticleAttrs) (*database.Article, error) {
	title := strings.TrimSpace(attrs.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	article := database.Article{
		ID:        strings.TrimSpace(attrs.ID),
		Title:     title,
		Category:  orDefault(attrs.Category, database.DefaultCategory),
		Excerpt:   optional(attrs.Excerpt),
		Content:   optional(attrs.Content),
		Author:    orDefault(attrs.Author, database.DefaultAuthor),
		ImageURL:  optional(attrs.ImageURL),
		ReadTime:  optional(orDefault(attrs.ReadTime, database.DefaultReadTime)),
		Published: attrs.Published,
	}

	if attrs.CreatedAt != nil {
		article.CreatedAt = *attrs.CreatedAt
	}

	if err := a.DB.Sql().WithContext(ctx).Create(&article).Error; err != nil {
		return nil, fmt.Errorf("issue creating article [%s]: %w", title, err)
	}

	return &article, nil
}

// Update replaces the editable fields of the article, keeping the defaults rules of Create.
func (a Articles) Update(ctx context.Context, id string, attrs database.ArticleAttrs) (*database.Article, error) {
	title := strings.TrimSpace(attrs.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	article, err := a.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{
		"title":     title,
		"category":  orDefault(attrs.Category, database.DefaultCategory),
		"excerpt":   optional(attrs.Excerpt),
		"content":   optional(attrs.Content),
		"author":    orDefault(attrs.Author, database.DefaultAuthor),
		"image_url": optional(attrs.ImageURL),
		"read_time": optional(orDefault(attrs.ReadTime, database.DefaultReadTime)),
		"published": attrs.Published,
	}

	if err := a.DB.Sql().WithContext(ctx).Model(article).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("issue updating article [%s]: %w", id, err)
	}

	return a.Find(ctx, id)
}

func (a Articles) Delete(ctx context.Context, id string) error {
	article, err := a.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := a.DB.Sql().WithContext(ctx).Delete(article).Error; err != nil {
		return fmt.Errorf("issue deleting article [%s]: %w", id, err)
	}

	return nil
}

// TogglePublished flips the published flag and nothing else.
func (a Articles) TogglePublished(ctx context.Context, id string) (*database.Article, error) {
	article, err := a.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.DB.Sql().WithContext(ctx).Model(article).Update("published", !article.Published).Error; err != nil {
		return nil, fmt.Errorf("issue toggling article [%s]: %w", id, err)
	}

	return a.Find(ctx, id)
}

// SetFeatured replaces the featured selection. Unknown or unpublished ids are ignored.
func (a Articles) SetFeatured(ctx context.Context, ids []string) error {
	return a.DB.Transaction(ctx, func(tx *baseGorm.DB) error {
		reset := tx.Model(&database.Article{}).
			Where("featured = ?", true).
			Updates(map[string]any{"featured": false, "featured_order": 0})

		if reset.Error != nil {
			return fmt.Errorf("issue clearing featured articles: %w", reset.Error)
		}

		for index, id := range ids {
			set := tx.Model(&database.Article{}).
				Where("id = ? AND published = ?", id, true).
				Updates(map[string]any{"featured": true, "featured_order": index})

			if set.Error != nil {
				return fmt.Errorf("issue featuring article [%s]: %w", id, set.Error)
			}
		}

		return nil
	})
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}

	return fallback
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}
