// Package ledger defines the transaction store ports shared by the
// in-memory and SQLite backends.
package ledger

import (
	"context"
	"errors"

	"tracker/internal/core"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("ledger closed")

// Snapshot is a consistent read of a store: its records, newest first, and
// the version they correspond to. Version increases on every mutation.
type Snapshot struct {
	Version      uint64
	Transactions []core.Transaction
}

// Ports for the transaction store.
type (
	// Prepender inserts a record at the head of the collection and returns
	// the resulting version.
	Prepender interface {
		Prepend(ctx context.Context, tx core.Transaction) (uint64, error)
	}

	// Replacer swaps the whole collection for txs, kept in the given order.
	Replacer interface {
		Replace(ctx context.Context, txs []core.Transaction) (uint64, error)
	}

	// Reader returns a copy of the current collection.
	Reader interface {
		Snapshot(ctx context.Context) (Snapshot, error)
	}

	// Store is the full per-session transaction store. It validates nothing.
	Store interface {
		Prepender
		Replacer
		Reader
		Close() error
	}
)
