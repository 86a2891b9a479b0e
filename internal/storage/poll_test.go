package storage

import (
	"context"
	"errors"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a table other processes write to directly.
type fakeBackend struct {
	mu   sync.Mutex
	rows map[string]string
	err  error
}

func (b *fakeBackend) set(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows[key] = value
}

func (b *fakeBackend) remove(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.rows, key)
}

func (b *fakeBackend) load(context.Context) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return maps.Clone(b.rows), nil
}

func newTestPoller(t *testing.T, b *fakeBackend) *Poller {
	t.Helper()
	p := &Poller{
		Interval: time.Hour, // ticks are driven by calling poll directly
		Load:     b.load,
		Notify:   func(string) {},
	}
	require.NoError(t, p.Start())
	t.Cleanup(p.Stop)
	return p
}

func TestPoller_ReportsExternalChanges(t *testing.T) {
	b := &fakeBackend{rows: map[string]string{"a": "1", "b": "2"}}
	p := newTestPoller(t, b)
	ctx := context.Background()

	assert.Empty(t, p.poll(ctx), "the first snapshot is the baseline")

	b.set("a", "10")
	b.set("c", "3")
	b.remove("b")
	assert.Equal(t, []string{"a", "b", "c"}, p.poll(ctx))
	assert.Empty(t, p.poll(ctx))
}

func TestPoller_OwnWritesAreNotReported(t *testing.T) {
	b := &fakeBackend{rows: map[string]string{"a": "1"}}
	p := newTestPoller(t, b)
	ctx := context.Background()

	require.NoError(t, p.Write("a", "2", func() error { b.set("a", "2"); return nil }))
	require.NoError(t, p.Write("n", "x", func() error { b.set("n", "x"); return nil }))
	require.NoError(t, p.Delete("a", func() error { b.remove("a"); return nil }))

	assert.Empty(t, p.poll(ctx))
}

func TestPoller_FailedWriteIsNotRecorded(t *testing.T) {
	b := &fakeBackend{rows: map[string]string{}}
	p := newTestPoller(t, b)

	err := p.Write("a", "1", func() error { return errors.New("disk full") })
	require.Error(t, err)

	b.set("a", "1")
	assert.Equal(t, []string{"a"}, p.poll(context.Background()))
}

func TestPoller_ChangedGate(t *testing.T) {
	b := &fakeBackend{rows: map[string]string{}}
	dirty := false
	p := &Poller{
		Interval: time.Hour,
		Changed:  func(context.Context) (bool, error) { return dirty, nil },
		Load:     b.load,
		Notify:   func(string) {},
	}
	require.NoError(t, p.Start())
	defer p.Stop()
	ctx := context.Background()

	b.set("a", "1")
	assert.Empty(t, p.poll(ctx), "no reload until the backend reports a change")

	dirty = true
	assert.Equal(t, []string{"a"}, p.poll(ctx))
}

func TestPoller_Disabled(t *testing.T) {
	p := &Poller{}
	require.NoError(t, p.Start())
	p.Stop()

	called := false
	require.NoError(t, p.Write("a", "1", func() error { called = true; return nil }))
	assert.True(t, called)
}
