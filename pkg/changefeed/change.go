package changefeed

import (
	"fmt"
	"strings"
	"time"
)

type Op string

const (
	Insert Op = "INSERT"
	Update Op = "UPDATE"
	Delete Op = "DELETE"
)

// Change is the "something changed" signal. Fields carries the row columns a
// subscriber may filter on (id, article_id, user_id), never the full row.
type Change struct {
	Table  string
	Op     Op
	ID     string
	Fields map[string]string
	At     time.Time
}

func (c Change) Field(name string) (string, bool) {
	if name == "id" && c.ID != "" {
		return c.ID, true
	}

	v, ok := c.Fields[name]

	return v, ok
}

// Filter narrows a subscription to rows whose Column equals Value. The zero value matches everything.
type Filter struct {
	Column string
	Value  string
}

func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

// ParseFilter reads the "<column>=eq.<value>" form used by clients, e.g. "article_id=eq.42".
func ParseFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}

	column, rest, found := strings.Cut(expr, "=")
	if !found {
		return Filter{}, fmt.Errorf("invalid filter [%s]: missing '='", expr)
	}

	value, ok := strings.CutPrefix(rest, "eq.")
	if !ok {
		return Filter{}, fmt.Errorf("invalid filter [%s]: only eq is supported", expr)
	}

	column = strings.TrimSpace(column)
	if column == "" || value == "" {
		return Filter{}, fmt.Errorf("invalid filter [%s]: empty column or value", expr)
	}

	return Filter{Column: column, Value: value}, nil
}

func (f Filter) IsZero() bool {
	return f.Column == ""
}

func (f Filter) String() string {
	if f.IsZero() {
		return "*"
	}

	return f.Column + "=eq." + f.Value
}

// Matches reports whether c passes the filter. A change that does not carry the
// filtered column (a delete that only knows the primary key) matches, so
// subscribers re-fetch rather than miss it.
func (f Filter) Matches(c Change) bool {
	if f.IsZero() {
		return true
	}

	v, ok := c.Field(f.Column)
	if !ok || v == "" {
		return true
	}

	return v == f.Value
}
