package dashboard

import "sync"

type Notification struct {
	Title       string
	Description string
	Destructive bool
}

type Notifier interface {
	Notify(n Notification)
}

func failure(description string) Notification {
	return Notification{Title: "Error", Description: description, Destructive: true}
}

// Toasts collects notifications until the page is rendered.
type Toasts struct {
	mu    sync.Mutex
	items []Notification
}

func (t *Toasts) Notify(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, n)
}

// Drain returns the pending notifications and clears them.
func (t *Toasts) Drain() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := t.items
	t.items = nil
	return items
}

type discard struct{}

func (discard) Notify(Notification) {}
