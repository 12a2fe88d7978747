package queries

import (
	"strings"

	"gorm.io/gorm"
)

// ApplyArticleFilters The given query master table is "articles"
func ApplyArticleFilters(filters *ArticleFilters, query *gorm.DB) *gorm.DB {
	if filters == nil {
		return query
	}

	if category := filters.GetCategory(); category != "" {
		query = query.Where("LOWER(articles.category) = ?", category)
	}

	if text := filters.GetText(); text != "" {
		pattern := "%" + escapeLike(text) + "%"

		query = query.Where(
			"(LOWER(articles.title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(articles.excerpt, '')) LIKE ? ESCAPE '\\' OR LOWER(articles.author) LIKE ? ESCAPE '\\')",
			pattern,
			pattern,
			pattern,
		)
	}

	if filters.ExcludeID != "" {
		query = query.Where("articles.id <> ?", filters.ExcludeID)
	}

	if limit := filters.GetLimit(); limit > 0 {
		query = query.Limit(limit)
	}

	return query
}

// PublishedOnly restricts a query on "articles" to rows visible to the public.
func PublishedOnly(query *gorm.DB) *gorm.DB {
	return query.Where("articles.published = ?", true)
}

func escapeLike(seed string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return replacer.Replace(seed)
}
