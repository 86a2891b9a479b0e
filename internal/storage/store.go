// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written
// or has been deleted.
var ErrNotFound = errors.New("key not found")

// Entry is one stored key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Store defines the key-value interface the engine persists through.
// It plays the role browser local storage plays for the web app, and lets
// the session aggregator be swapped onto a shared backend without change.
// Writes are last-write-wins; there is no coordination between writers.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every entry whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Entry, error)

	// OnChange registers fn to be called with the key after every successful
	// Put or Delete. The returned func unregisters it.
	OnChange(fn func(key string)) (cancel func())

	// Close releases any resources held by the store.
	Close() error
}

// Logical keys shared by the engine and the embedding shell.
const (
	KeyCurrency = "currency"
	KeyLanguage = "language"
	KeyHistory  = "history"
)
