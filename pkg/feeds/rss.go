package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/database/repository/queries"
)

const (
	ContentType = "application/rss+xml; charset=utf-8"
	ItemsLimit  = 20
)

type ArticleSource interface {
	Published(ctx context.Context, filters queries.ArticleFilters) ([]database.Article, error)
}

type Channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	Language      string `xml:"language"`
	LastBuildDate string `xml:"lastBuildDate"`
	Items         []Item `xml:"item"`
}

type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        GUID   `xml:"guid"`
	Description string `xml:"description,omitempty"`
	Author      string `xml:"dc:creator,omitempty"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate"`
}

type GUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	DC      string   `xml:"xmlns:dc,attr"`
	Channel Channel  `xml:"channel"`
}

type Site struct {
	Title   string
	BaseURL string
}

// Build lists the newest published articles as an RSS 2.0 feed.
func Build(ctx context.Context, source ArticleSource, site Site, now time.Time) (RSS, error) {
	articles, err := source.Published(ctx, queries.ArticleFilters{Limit: ItemsLimit})
	if err != nil {
		return RSS{}, fmt.Errorf("failed to load published articles: %w", err)
	}

	feed := RSS{
		Version: "2.0",
		DC:      "http://purl.org/dc/elements/1.1/",
		Channel: Channel{
			Title:         site.Title,
			Link:          site.BaseURL + "/",
			Description:   "Latest articles from " + site.Title,
			Language:      "en-us",
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			Items:         make([]Item, 0, len(articles)),
		},
	}

	for _, article := range articles {
		link := site.BaseURL + "/article/" + url.PathEscape(article.ID)
		item := Item{
			Title:    article.Title,
			Link:     link,
			GUID:     GUID{Value: link, IsPermaLink: true},
			Author:   article.Author,
			Category: article.Category,
			PubDate:  article.CreatedAt.UTC().Format(time.RFC1123Z),
		}

		if article.Excerpt != nil {
			item.Description = *article.Excerpt
		}

		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	if len(articles) > 0 {
		feed.Channel.LastBuildDate = articles[0].CreatedAt.UTC().Format(time.RFC1123Z)
	}

	return feed, nil
}

func Render(feed RSS) ([]byte, error) {
	body, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}
