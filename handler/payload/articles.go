package payload

import (
	"strings"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/pkg/live"
)

type ArticlesResponse struct {
	Articles []live.ArticleDisplay `json:"articles"`
	Category string                `json:"category,omitempty"`
}

type ArticleResponse struct {
	Article live.ArticleDisplay `json:"article"`
}

// ArticleRequest is the admin create/update body.
type ArticleRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Category  string `json:"category" validate:"omitempty,category"`
	Excerpt   string `json:"excerpt" validate:"omitempty,max=1000"`
	Content   string `json:"content"`
	Author    string `json:"author" validate:"omitempty,max=120"`
	ImageURL  string `json:"image_url" validate:"omitempty,url"`
	ReadTime  string `json:"read_time" validate:"omitempty,max=40"`
	Published bool   `json:"published"`
}

func (r ArticleRequest) Attrs() database.ArticleAttrs {
	return database.ArticleAttrs{
		Title:     strings.TrimSpace(r.Title),
		Category:  strings.TrimSpace(r.Category),
		Excerpt:   strings.TrimSpace(r.Excerpt),
		Content:   r.Content,
		Author:    strings.TrimSpace(r.Author),
		ImageURL:  strings.TrimSpace(r.ImageURL),
		ReadTime:  strings.TrimSpace(r.ReadTime),
		Published: r.Published,
	}
}

type FeaturedRequest struct {
	IDs []string `json:"ids" validate:"max=12,dive,required"`
}

// AdminArticle is the raw admin view; drafts are included.
type AdminArticle struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Excerpt       *string   `json:"excerpt"`
	Content       *string   `json:"content"`
	Author        string    `json:"author"`
	ImageURL      *string   `json:"image_url"`
	ReadTime      *string   `json:"read_time"`
	Published     bool      `json:"published"`
	Featured      bool      `json:"featured"`
	FeaturedOrder int       `json:"featured_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AdminArticlesResponse struct {
	Articles []AdminArticle `json:"articles"`
}

func MapAdminArticles(articles []database.Article) AdminArticlesResponse {
	out := make([]AdminArticle, 0, len(articles))

	for _, a := range articles {
		out = append(out, AdminArticle{
			ID:            a.ID,
			Title:         a.Title,
			Category:      a.Category,
			Excerpt:       a.Excerpt,
			Content:       a.Content,
			Author:        a.Author,
			ImageURL:      a.ImageURL,
			ReadTime:      a.ReadTime,
			Published:     a.Published,
			Featured:      a.Featured,
			FeaturedOrder: a.FeaturedOrder,
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		})
	}

	return AdminArticlesResponse{Articles: out}
}
