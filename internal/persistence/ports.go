// Package persistence defines the durable key-value contract the expense
// store writes through.
package persistence

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Ports for outbound adapters.
type (
	// Reader loads the blob stored under key.
	Reader interface {
		Read(ctx context.Context, key string) ([]byte, error)
	}

	// Writer replaces the blob stored under key.
	Writer interface {
		Write(ctx context.Context, key string, value []byte) error
	}

	// Deleter removes key. Deleting a missing key is not an error.
	Deleter interface {
		Delete(ctx context.Context, key string) error
	}

	// Gateway is durable byte storage addressed by string keys.
	Gateway interface {
		Reader
		Writer
		Deleter
	}
)
