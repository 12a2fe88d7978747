package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/perspective/database"
)

const (
	TimestampLayout = "2006-01-02T15:04:05.000Z"
	ContentType     = "text/csv;charset=utf-8"
)

var ErrNoSubscribers = errors.New("there are no subscribers to export")

var subscriberHeader = []string{"Email", "Status", "Subscribed At"}

// SubscribersFilename is the download name for an export taken at now.
func SubscribersFilename(now time.Time) string {
	return fmt.Sprintf("newsletter-subscribers-%s.csv", now.UTC().Format("2006-01-02"))
}

// WriteSubscribers writes the subscribers as CSV in the given order.
func WriteSubscribers(w io.Writer, subscribers []database.NewsletterSubscriber) error {
	if len(subscribers) == 0 {
		return ErrNoSubscribers
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(subscriberHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, subscriber := range subscribers {
		record := []string{
			subscriber.Email,
			Status(subscriber.IsActive),
			subscriber.SubscribedAt.UTC().Format(TimestampLayout),
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write subscriber [%s]: %w", subscriber.Email, err)
		}
	}

	writer.Flush()

	return writer.Error()
}

func Status(active bool) string {
	if active {
		return "Active"
	}

	return "Inactive"
}
