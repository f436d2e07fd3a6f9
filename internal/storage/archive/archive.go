// Package archive persists backtest results to a pluggable storage
// backend so runs can be reviewed after the process exits.
package archive

import "context"

// Store is the backend interface for archived artifacts.
type Store interface {
	// Put stores data at the given path.
	Put(ctx context.Context, path string, data []byte) error

	// Get retrieves data from the given path.
	Get(ctx context.Context, path string) ([]byte, error)

	// List returns all paths under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data at the given path.
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)
}
