package subscribers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/database/repository"
	"github.com/perspective/pkg/cli"
	"github.com/perspective/pkg/export"
)

type Handler struct {
	Subscribers repository.Subscribers
}

func NewHandler(db *database.Connection) Handler {
	return Handler{Subscribers: repository.Subscribers{DB: db}}
}

// Export writes every subscriber to a dated CSV file inside dir and returns its path.
func (h Handler) Export(ctx context.Context, dir string, now time.Time) (string, error) {
	items, err := h.Subscribers.List(ctx)
	if err != nil {
		return "", err
	}

	if len(items) == 0 {
		return "", export.ErrNoSubscribers
	}

	path := filepath.Join(dir, export.SubscribersFilename(now))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create [%s]: %w", path, err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("could not close the export file", "path", path, "error", err)
		}
	}()

	if err := export.WriteSubscribers(file, items); err != nil {
		return "", err
	}

	cli.Successln(fmt.Sprintf("\nExported %d subscribers to %s", len(items), path))

	return path, nil
}
