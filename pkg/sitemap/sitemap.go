package sitemap

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/perspective/database"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	Namespace   = "http://www.sitemaps.org/schemas/sitemap/0.9"
	ContentType = "application/xml"
	DateLayout  = "2006-01-02"
)

var tracer = otel.Tracer("github.com/perspective/pkg/sitemap")

var ErrInvalidBaseURL = errors.New("base url must be an absolute http(s) url")

type Page struct {
	Path       string
	Priority   string
	ChangeFreq string
}

// StaticPages are listed before the articles, in this order.
var StaticPages = []Page{
	{Path: "/", Priority: "1.0", ChangeFreq: "daily"},
	{Path: "/about", Priority: "0.8", ChangeFreq: "monthly"},
	{Path: "/contact", Priority: "0.7", ChangeFreq: "monthly"},
	{Path: "/authors", Priority: "0.7", ChangeFreq: "weekly"},
	{Path: "/lifestyle", Priority: "0.8", ChangeFreq: "weekly"},
	{Path: "/growth", Priority: "0.8", ChangeFreq: "weekly"},
	{Path: "/productivity", Priority: "0.8", ChangeFreq: "weekly"},
	{Path: "/tech-tips", Priority: "0.8", ChangeFreq: "weekly"},
	{Path: "/search", Priority: "0.6", ChangeFreq: "weekly"},
	{Path: "/privacy", Priority: "0.3", ChangeFreq: "yearly"},
	{Path: "/terms", Priority: "0.3", ChangeFreq: "yearly"},
}

type ArticleSource interface {
	RecentlyUpdated(ctx context.Context) ([]database.Article, error)
}

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Build lists the static pages and every published article, most recently updated first.
func Build(ctx context.Context, source ArticleSource, baseURL string, now time.Time) (URLSet, error) {
	ctx, span := tracer.Start(ctx, "sitemap.build")
	defer span.End()

	base, err := NormaliseBaseURL(baseURL)
	if err != nil {
		return URLSet{}, err
	}

	articles, err := source.RecentlyUpdated(ctx)
	if err != nil {
		span.RecordError(err)
		return URLSet{}, fmt.Errorf("failed to load published articles: %w", err)
	}

	span.SetAttributes(attribute.Int("articles", len(articles)))

	today := now.UTC().Format(DateLayout)
	set := URLSet{Xmlns: Namespace, URLs: make([]URL, 0, len(StaticPages)+len(articles))}

	for _, page := range StaticPages {
		set.URLs = append(set.URLs, URL{
			Loc:        base + page.Path,
			LastMod:    today,
			ChangeFreq: page.ChangeFreq,
			Priority:   page.Priority,
		})
	}

	for _, article := range articles {
		lastMod := today
		if !article.UpdatedAt.IsZero() {
			lastMod = article.UpdatedAt.UTC().Format(DateLayout)
		}

		set.URLs = append(set.URLs, URL{
			Loc:        base + "/article/" + url.PathEscape(article.ID),
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   "0.9",
		})
	}

	return set, nil
}

// Render encodes the set as an indented XML document.
func Render(set URLSet) ([]byte, error) {
	if set.Xmlns == "" {
		set.Xmlns = Namespace
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Empty is the document served when the sitemap cannot be built.
func Empty() []byte {
	body, _ := Render(URLSet{})

	return body
}

func NormaliseBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""

	return strings.TrimRight(parsed.String(), "/"), nil
}
