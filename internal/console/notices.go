package console

import "sync"

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a transient message shown once to the operator.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

type Notices struct {
	mu    sync.Mutex
	items []Notice
}

func (n *Notices) Push(level NoticeLevel, msg string) {
	n.mu.Lock()
	n.items = append(n.items, Notice{Level: level, Message: msg})
	n.mu.Unlock()
}

func (n *Notices) Success(msg string) { n.Push(NoticeSuccess, msg) }
func (n *Notices) Error(msg string)   { n.Push(NoticeError, msg) }

// Drain returns the pending notices and forgets them.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	return out
}
