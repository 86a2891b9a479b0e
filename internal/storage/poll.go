package storage

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Poller reports writes made by other processes sharing the same backend.
// It remembers a fingerprint per key, reloads them on a ticker and calls
// Notify for every key that was added, changed or removed since. Writes made
// through this process must go through Write or Delete so they are recorded
// instead of being reported a second time.
//
// A Poller with a non-positive Interval never polls; Write and Delete then
// just run the write.
type Poller struct {
	Interval time.Duration

	// Changed reports whether the backend may have changed since the last
	// call. Nil means every tick reloads.
	Changed func(ctx context.Context) (bool, error)

	// Load returns the fingerprint of every stored key.
	Load func(ctx context.Context) (map[string]string, error)

	Notify func(key string)
	Logger *slog.Logger

	mu      sync.Mutex
	seen    map[string]string
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Start takes the first snapshot and begins polling. Calling it again is a
// no-op, as is calling it with polling disabled.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.Interval <= 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	if p.Changed != nil {
		if _, err := p.Changed(ctx); err != nil {
			cancel()
			return err
		}
	}
	seen, err := p.Load(ctx)
	if err != nil {
		cancel()
		return err
	}

	p.seen = seen
	p.started = true
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx)
	return nil
}

// Stop ends polling and waits for the current tick to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Write runs write and records fingerprint as the key's current state.
func (p *Poller) Write(key, fingerprint string, write func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := write(); err != nil {
		return err
	}
	if p.seen != nil {
		p.seen[key] = fingerprint
	}
	return nil
}

// Delete runs write and records key as absent.
func (p *Poller) Delete(key string, write func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := write(); err != nil {
		return err
	}
	delete(p.seen, key)
	return nil
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, key := range p.poll(ctx) {
				p.Notify(key)
			}
		}
	}
}

// poll returns the keys that differ from the last snapshot, sorted.
func (p *Poller) poll(ctx context.Context) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Changed != nil {
		changed, err := p.Changed(ctx)
		if err != nil {
			p.logError(ctx, "Failed to check for external changes", err)
			return nil
		}
		if !changed {
			return nil
		}
	}

	next, err := p.Load(ctx)
	if err != nil {
		p.logError(ctx, "Failed to reload keys", err)
		return nil
	}

	var keys []string
	for k, v := range next {
		if old, ok := p.seen[k]; !ok || old != v {
			keys = append(keys, k)
		}
	}
	for k := range p.seen {
		if _, ok := next[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	p.seen = next
	return keys
}

func (p *Poller) logError(ctx context.Context, msg string, err error) {
	if ctx.Err() != nil {
		return
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(msg, "component", "poller", "error", err)
}
