package articles

import (
	"context"
	"fmt"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/pkg/cli"
	"github.com/perspective/pkg/markdown"
)

type Handler struct {
	Articles repository.Articles
}

func NewHandler(db *database.Connection) Handler {
	return Handler{Articles: repository.Articles{DB: db}}
}

// Import downloads the markdown document behind the parser and stores it as an article.
func (h Handler) Import(ctx context.Context, parser markdown.Parser) (*database.Article, error) {
	content, err := parser.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return h.ImportDocument(ctx, content)
}

func (h Handler) ImportDocument(ctx context.Context, content string) (*database.Article, error) {
	document, err := markdown.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("handler: could not parse the given document: %w", err)
	}

	attrs, err := document.Attrs()
	if err != nil {
		return nil, fmt.Errorf("handler: the given published_at [%s] date is invalid", document.PublishedAt)
	}

	article, err := h.Articles.Create(ctx, attrs)
	if err != nil {
		return nil, fmt.Errorf("handler: error persisting the article [%s]: %w", attrs.Title, err)
	}

	cli.Successln(fmt.Sprintf("\nArticle [%s] created successfully.", article.Title))
	cli.Grayln("   > id: " + article.ID)

	return article, nil
}
