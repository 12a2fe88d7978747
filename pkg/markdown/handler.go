package markdown

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/perspective/pkg/portal"
	"gopkg.in/yaml.v3"
)

var headerImage = regexp.MustCompile(`^!\[(.*?)]\((.*?)\)\s*`)

// Fetch downloads the markdown document at p.Url.
func (p Parser) Fetch(ctx context.Context) (string, error) {
	client := p.Client
	if client == nil {
		client = portal.NewDefaultClient(nil)
	}

	if client.OnHeaders == nil {
		client.OnHeaders = func(req *http.Request) {
			req.Header.Set("Accept", "text/markdown, text/plain")
			req.Header.Set("Cache-Control", "no-cache")
		}
	}

	content, err := client.Get(ctx, p.Url)
	if err != nil {
		return "", fmt.Errorf("error fetching markdown [%s]: %w", p.Url, err)
	}

	return content, nil
}

// Parse splits a document into its YAML front matter, an optional leading
// header image and the remaining body.
func Parse(data string) (Article, error) {
	var article Article

	sections := strings.SplitN(strings.TrimLeft(data, "\ufeff\r\n "), "---", 3)
	if len(sections) < 3 || strings.TrimSpace(sections[0]) != "" {
		return article, fmt.Errorf("invalid front matter")
	}

	if err := yaml.Unmarshal([]byte(sections[1]), &article.FrontMatter); err != nil {
		return article, fmt.Errorf("error parsing front matter: %w", err)
	}

	body := strings.TrimSpace(sections[2])

	if match := headerImage.FindStringSubmatch(body); match != nil {
		article.ImageAlt = match[1]
		article.ImageURL = match[2]
		body = strings.TrimSpace(body[len(match[0]):])
	}

	article.Content = body

	return article, nil
}
