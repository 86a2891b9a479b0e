package storage

import "sync"

// Notifier fans a changed key out to registered listeners.
// Store implementations embed it and call Notify after a successful write.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(key string)
}

// OnChange registers fn and returns a func that unregisters it.
func (n *Notifier) OnChange(fn func(key string)) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listeners == nil {
		n.listeners = make(map[int]func(string))
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

// Notify calls every listener with key. Listeners run outside the lock, so
// they may read from the store or register further listeners.
func (n *Notifier) Notify(key string) {
	n.mu.Lock()
	fns := make([]func(string), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
}
