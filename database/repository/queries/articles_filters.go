package queries

import (
	"strings"

	"github.com/perspective/pkg/portal"
)

type ArticleFilters struct {
	Category  string // Exact, case-insensitive match
	Text      string // Case-insensitive partial match on title, excerpt or author
	Limit     int
	ExcludeID string
}

// GetCategory returns the normalised category. Empty disables the filter.
func (f ArticleFilters) GetCategory() string {
	return f.sanitiseString(f.Category)
}

func (f ArticleFilters) GetText() string {
	return f.sanitiseString(f.Text)
}

func (f ArticleFilters) GetLimit() int {
	if f.Limit < 0 {
		return 0
	}

	return f.Limit
}

func (f ArticleFilters) sanitiseString(seed string) string {
	str := portal.NewStringable(seed)

	return strings.TrimSpace(str.ToLower())
}

// Excluding returns a copy of f that also filters out the article with the given id.
func (f ArticleFilters) Excluding(id string) ArticleFilters {
	f.ExcludeID = strings.TrimSpace(id)

	return f
}
