// Package storage selects and opens the KeyValueStore driver named by a
// Config. Drivers live in the sub-packages.
package storage

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/lectern/internal/storage/file"
	"github.com/mesh-intelligence/lectern/internal/storage/memory"
	"github.com/mesh-intelligence/lectern/internal/storage/postgres"
	"github.com/mesh-intelligence/lectern/internal/storage/s3"
	"github.com/mesh-intelligence/lectern/internal/storage/sqlite"
	"github.com/mesh-intelligence/lectern/pkg/types"
)

// Handle is an opened store plus the function that releases it.
type Handle struct {
	types.KeyValueStore
	Backend string
	close   func() error
}

// Close releases driver resources. Close is safe to call more than once.
func (h *Handle) Close() error {
	if h.close == nil {
		return nil
	}
	err := h.close()
	h.close = nil
	return err
}

// Open validates cfg and opens the configured driver.
func Open(ctx context.Context, cfg types.Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendMemory:
		return &Handle{KeyValueStore: memory.New(), Backend: cfg.Backend}, nil
	case types.BackendFile:
		s, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return &Handle{KeyValueStore: s, Backend: cfg.Backend}, nil
	case types.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &Handle{KeyValueStore: s, Backend: cfg.Backend, close: s.Close}, nil
	case types.BackendPostgres:
		s, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return &Handle{KeyValueStore: s, Backend: cfg.Backend, close: s.Close}, nil
	case types.BackendS3:
		s, err := s3.New(ctx, cfg.S3, nil)
		if err != nil {
			return nil, fmt.Errorf("open s3 store: %w", err)
		}
		return &Handle{KeyValueStore: s, Backend: cfg.Backend}, nil
	default:
		return nil, types.ErrBackendUnknown
	}
}
