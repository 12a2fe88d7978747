package live

import "sync"

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient user-facing message about the outcome of an action.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// Notices collects notices, e.g. for the response of one request.
type Notices struct {
	mu    sync.Mutex
	items []Notice
}

func (n *Notices) Notify(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.items = append(n.items, notice)
}

func (n *Notices) All() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]Notice{}, n.items...)
}

func (n *Notices) Last() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.items) == 0 {
		return Notice{}, false
	}

	return n.items[len(n.items)-1], true
}
