package markdown

import (
	"fmt"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/pkg/portal"
)

type FrontMatter struct {
	Title       string `yaml:"title"`
	Excerpt     string `yaml:"excerpt"`
	Author      string `yaml:"author"`
	Category    string `yaml:"category"`
	ReadTime    string `yaml:"read_time"`
	Image       string `yaml:"image"`
	Published   bool   `yaml:"published"`
	PublishedAt string `yaml:"published_at"`
}

type Article struct {
	FrontMatter
	ImageURL string
	ImageAlt string
	Content  string
}

type Parser struct {
	Url    string
	Client *portal.Client
}

func (f FrontMatter) GetPublishedAt() (*time.Time, error) {
	if f.PublishedAt == "" {
		return nil, nil
	}

	stringable := portal.NewStringable(f.PublishedAt)
	publishedAt, err := stringable.ToDatetime()

	if err != nil {
		return nil, fmt.Errorf("error parsing published_at: %v", err)
	}

	return publishedAt, nil
}

// Attrs converts the document into article attributes. The front matter
// image wins over a leading header image.
func (a Article) Attrs() (database.ArticleAttrs, error) {
	createdAt, err := a.GetPublishedAt()
	if err != nil {
		return database.ArticleAttrs{}, err
	}

	image := a.Image
	if image == "" {
		image = a.ImageURL
	}

	return database.ArticleAttrs{
		Title:     a.Title,
		Category:  a.Category,
		Excerpt:   a.Excerpt,
		Content:   a.Content,
		Author:    a.Author,
		ImageURL:  image,
		ReadTime:  a.ReadTime,
		Published: a.Published,
		CreatedAt: createdAt,
	}, nil
}
