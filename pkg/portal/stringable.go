package portal

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Stringable struct {
	value string
}

func NewStringable(value string) *Stringable {
	return &Stringable{
		value: strings.TrimSpace(value),
	}
}

func (s Stringable) ToLower() string {
	caser := cases.Lower(language.English)

	return strings.TrimSpace(caser.String(s.value))
}

// ToTitle capitalises the first letter of every word ("tech tips" -> "Tech Tips").
func (s Stringable) ToTitle() string {
	caser := cases.Title(language.English)

	return caser.String(s.value)
}

// Contains reports whether needle appears in the value, ignoring case.
func (s Stringable) Contains(needle string) bool {
	return strings.Contains(s.ToLower(), NewStringable(needle).ToLower())
}

func (s Stringable) ToDatetime() (*time.Time, error) {
	parsed, err := time.Parse(time.DateOnly, s.value)

	if err != nil {
		return nil, fmt.Errorf("error parsing date string: %v", err)
	}

	produce := time.Date(
		parsed.Year(),
		parsed.Month(),
		parsed.Day(),
		0, 0, 0, 0,
		time.UTC,
	)

	return &produce, nil
}
