// Package memory provides an in-process implementation of storage.Store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mmynk/tipsplitter/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps entries in a map. Nothing survives the process.
type Store struct {
	storage.Notifier

	mu   sync.RWMutex
	data map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()

	s.Notify(key)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()

	s.Notify(key)
	return nil
}

func (s *Store) List(_ context.Context, prefix string) ([]storage.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []storage.Entry
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, storage.Entry{Key: k, Value: v})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
