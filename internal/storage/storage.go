// Package storage holds the key-value persistence used by the cart store.
package storage

import (
	"context"
	"errors"
)

var ErrEmptyKey = errors.New("storage key is empty")

// Store is a string key-value store. Get reports found=false for a missing key
// rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Nop persists nothing. It stands in where there is no durable storage.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Nop) Set(context.Context, string, string) error         { return nil }
func (Nop) Remove(context.Context, string) error              { return nil }
