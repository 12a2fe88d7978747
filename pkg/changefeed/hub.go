package changefeed

import (
	"sync"
	"time"
)

// Publisher is implemented by Hub and consumed by the database write callbacks.
type Publisher interface {
	Publish(Change)
}

// Hub fans changes out to subscriptions keyed by table. Publishing never blocks:
// each subscription holds at most one pending change, and a full buffer means a
// re-fetch is already due, so newer changes coalesce into it.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
	now    func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uint64]*Subscription),
		now:  time.Now,
	}
}

type Subscription struct {
	C      <-chan Change
	ch     chan Change
	id     uint64
	table  string
	filter Filter
	hub    *Hub
	once   sync.Once
}

func (h *Hub) Subscribe(table string, filter Filter) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Change, 1)
	sub := &Subscription{
		C:      ch,
		ch:     ch,
		table:  table,
		filter: filter,
		hub:    h,
	}

	if h.closed {
		close(ch)
		return sub
	}

	h.nextID++
	sub.id = h.nextID
	h.subs[sub.id] = sub

	activeSubscriptions.WithLabelValues(table).Inc()

	return sub
}

func (h *Hub) Publish(c Change) {
	if c.At.IsZero() {
		c.At = h.now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	published.WithLabelValues(c.Table, string(c.Op)).Inc()

	for _, sub := range h.subs {
		if sub.table != c.Table || !sub.filter.Matches(c) {
			continue
		}

		select {
		case sub.ch <- c:
			delivered.WithLabelValues(c.Table).Inc()
		default:
			coalesced.WithLabelValues(c.Table).Inc()
		}
	}
}

// Subscribers returns how many live subscriptions watch table.
func (h *Hub) Subscribers(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, sub := range h.subs {
		if sub.table == table {
			count++
		}
	}

	return count
}

// Close ends every subscription. Publishing after Close is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true

	for id, sub := range h.subs {
		delete(h.subs, id)
		activeSubscriptions.WithLabelValues(sub.table).Dec()
		close(sub.ch)
	}
}

func (s *Subscription) Close() {
	if s == nil {
		return
	}

	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()

		if _, ok := h.subs[s.id]; !ok {
			return
		}

		delete(h.subs, s.id)
		activeSubscriptions.WithLabelValues(s.table).Dec()
		close(s.ch)
	})
}

func (s *Subscription) Filter() Filter {
	return s.filter
}
