package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const StreamHeartbeat = 25 * time.Second

// Stream writes Server-Sent Events to one client.
type Stream struct {
	writer  http.ResponseWriter
	flusher http.Flusher
}

func NewStream(w http.ResponseWriter) (*Stream, *ApiError) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, InternalError("streaming is not supported by the connection")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Stream{writer: w, flusher: flusher}, nil
}

// Send writes one event with a JSON payload.
func (s *Stream) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	if _, err = fmt.Fprintf(s.writer, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}

	s.flusher.Flush()

	return nil
}

// Ping writes a comment line so proxies keep the connection open.
func (s *Stream) Ping() error {
	if _, err := fmt.Fprint(s.writer, ": ping\n\n"); err != nil {
		return err
	}

	s.flusher.Flush()

	return nil
}

// Pump sends every value from updates as a snapshot event until ctx is done
// or updates is closed.
func Pump[T any](ctx context.Context, stream *Stream, updates <-chan T, heartbeat time.Duration) error {
	if heartbeat <= 0 {
		heartbeat = StreamHeartbeat
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}

			return ctx.Err()
		case value, ok := <-updates:
			if !ok {
				return nil
			}

			if err := stream.Send("snapshot", value); err != nil {
				return err
			}
		case <-ticker.C:
			if err := stream.Ping(); err != nil {
				return err
			}
		}
	}
}
