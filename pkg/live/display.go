package live

import (
	"strings"
	"time"

	"github.com/perspective/database"
)

const DateLayout = "Jan 2, 2006"

// Defaults applied when an article row leaves a display field empty.
var Defaults = struct {
	Image    string
	ReadTime string
}{
	Image:    "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=1920&q=80",
	ReadTime: database.DefaultReadTime,
}

// tagClasses is checked in order; the first matching fragment wins.
var tagClasses = []struct {
	fragment string
	class    string
}{
	{"financ", "tag-financing"},
	{"lifestyle", "tag-lifestyle"},
	{"community", "tag-community"},
	{"wellness", "tag-wellness"},
	{"travel", "tag-travel"},
	{"creativ", "tag-creativity"},
	{"growth", "tag-growth"},
}

const defaultTagClass = "tag-lifestyle"

type ArticleDisplay struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	TagClass string  `json:"tag_class"`
	Date     string  `json:"date"`
	Image    string  `json:"image"`
	Excerpt  *string `json:"excerpt"`
	Content  *string `json:"content"`
	Author   string  `json:"author"`
	ReadTime string  `json:"read_time"`
}

// MapArticle turns a stored article into its display form. It is pure.
func MapArticle(article database.Article) ArticleDisplay {
	return ArticleDisplay{
		ID:       article.ID,
		Title:    article.Title,
		Category: article.Category,
		TagClass: TagClass(article.Category),
		Date:     FormatDate(article.CreatedAt),
		Image:    valueOr(article.ImageURL, Defaults.Image),
		Excerpt:  article.Excerpt,
		Content:  article.Content,
		Author:   article.Author,
		ReadTime: valueOr(article.ReadTime, Defaults.ReadTime),
	}
}

// MapArticles never returns nil, so empty listings encode as [].
func MapArticles(articles []database.Article) []ArticleDisplay {
	out := make([]ArticleDisplay, 0, len(articles))

	for _, article := range articles {
		out = append(out, MapArticle(article))
	}

	return out
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func TagClass(category string) string {
	normalized := strings.ToLower(category)

	for _, tag := range tagClasses {
		if strings.Contains(normalized, tag.fragment) {
			return tag.class
		}
	}

	return defaultTagClass
}

func valueOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}

	return *value
}
