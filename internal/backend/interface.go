// Package backend selects and constructs the data source a binary reads
// sale rows from.
package backend

import (
	"context"

	"ventas/internal/source"
)

// Backend bundles the two source roles every binary needs.
type Backend interface {
	source.RowSource
	source.OptionSource
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function.
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// BackendType identifies a data backend implementation.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// IsValid reports whether the type names a known backend.
func (t BackendType) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	}
	return false
}

func (t BackendType) String() string {
	return string(t)
}
