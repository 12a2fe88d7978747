package live

import (
	"context"
	"sync"

	"github.com/perspective/pkg/changefeed"
)

// Feed is the subscription side of the change feed.
type Feed interface {
	Subscribe(table string, filter changefeed.Filter) *changefeed.Subscription
}

// watcher runs one refetch loop: it subscribes first, fetches once, then
// fetches again on every notification. Refetches never overlap.
type watcher struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (w *watcher) start(ctx context.Context, feed Feed, table string, filter changefeed.Filter, refetch func(context.Context)) {
	w.stop()

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := feed.Subscribe(table, filter)
	done := make(chan struct{})

	w.mu.Lock()
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	go func() {
		defer close(done)
		defer sub.Close()

		refetch(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C:
				if !ok {
					return
				}

				refetch(ctx)
			}
		}
	}()
}

// stop cancels the loop and waits for it to exit.
func (w *watcher) stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

// latest is a one-slot channel where a newer value replaces an unread one.
type latest[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool
}

func newLatest[T any]() *latest[T] {
	return &latest[T]{ch: make(chan T, 1)}
}

func (l *latest[T]) send(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	select {
	case <-l.ch:
	default:
	}

	l.ch <- v
}

func (l *latest[T]) close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.closed = true
	close(l.ch)
}

func (l *latest[T]) C() <-chan T {
	return l.ch
}
