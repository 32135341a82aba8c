// Package kv is the key-value medium every collection is serialized into.
package kv

import (
	"context"
	"fmt"
	"regexp"

	"selflab/internal/platform/config"
	apperrors "selflab/internal/platform/errors"
)

// Write is one staged mutation. A Delete write removes the key.
type Write struct {
	Key    string
	Value  []byte
	Delete bool
}

// Medium stores opaque values by key. Commit applies all writes or none.
type Medium interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Commit(ctx context.Context, writes []Write) error
	Close() error
}

var validKey = regexp.MustCompile(`^[a-z0-9_]+$`)

func checkKeys(writes []Write) error {
	for _, w := range writes {
		if !validKey.MatchString(w.Key) {
			return fmt.Errorf("%w: key %q", apperrors.ErrInvalidInput, w.Key)
		}
	}
	return nil
}

// Open builds the medium selected by cfg.Storage.
func Open(cfg config.Config) (Medium, error) {
	switch cfg.Storage {
	case config.StorageFile:
		return NewFileMedium(cfg.StorePath(), cfg.QuotaBytes)
	case config.StorageSQLite:
		return NewSQLiteMedium(cfg.DBPath, cfg.QuotaBytes)
	case config.StorageMemory:
		return NewMemoryMedium(cfg.QuotaBytes), nil
	case config.StorageNone:
		return Unavailable{}, nil
	default:
		return nil, fmt.Errorf("unsupported storage %q", cfg.Storage)
	}
}

// Unavailable models a context with no storage at all.
type Unavailable struct{}

func (Unavailable) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, apperrors.ErrStorageUnavailable
}

func (Unavailable) Commit(context.Context, []Write) error {
	return apperrors.ErrStorageUnavailable
}

func (Unavailable) Close() error { return nil }
