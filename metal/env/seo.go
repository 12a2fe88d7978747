package env

import "strings"

// SeoEnvironment drives the sitemap and feed generation.
type SeoEnvironment struct {
	BaseURL         string `validate:"required,url"`
	SiteTitle       string `validate:"required,min=3"`
	SitemapSchedule string `validate:"required,cron"`
}

func (e SeoEnvironment) GetBaseURL() string {
	return strings.TrimRight(e.BaseURL, "/")
}
