// Package store keeps typed record collections on top of a kv medium.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"selflab/internal/platform/clock"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/kv"
	"selflab/internal/platform/logger"
)

// SchemaVersion is written into every collection envelope.
const SchemaVersion = 1

// ErrCorrupt reports a stored collection that could not be decoded.
var ErrCorrupt = errors.New("stored collection is corrupt")

type envelope[T any] struct {
	SchemaVersion int `json:"schema_version"`
	Records       []T `json:"records"`
}

// Schema describes how a collection identifies and stamps its records.
// Legacy, when set, decodes the bare array layout of schema version 0.
type Schema[T any] struct {
	Key    string
	ID     func(T) string
	Touch  func(T, time.Time) T
	Legacy func(json.RawMessage) ([]T, error)
}

type Collection[T any] struct {
	kv     *kv.Manager
	schema Schema[T]
	clock  clock.Clock
	log    *logger.Logger
}

func NewCollection[T any](manager *kv.Manager, clk clock.Clock, log *logger.Logger, schema Schema[T]) *Collection[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Collection[T]{kv: manager, schema: schema, clock: clk, log: log.With("collection", schema.Key)}
}

func (c *Collection[T]) Key() string { return c.schema.Key }

// List returns the stored records in insertion order, keeping those that
// match filter when one is given. Unreadable storage yields no records.
func (c *Collection[T]) List(ctx context.Context, filter func(T) bool) ([]T, error) {
	records, err := c.read(ctx)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			c.log.Warn("ignoring unreadable collection", "error", err)
			return []T{}, nil
		}
		return nil, err
	}
	if filter == nil {
		return records, nil
	}
	out := make([]T, 0, len(records))
	for _, record := range records {
		if filter(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	return c.FindUniqueBy(ctx, func(record T) bool { return c.schema.ID(record) == id })
}

// FindUniqueBy returns the first record matching match.
func (c *Collection[T]) FindUniqueBy(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T
	records, err := c.List(ctx, nil)
	if err != nil {
		return zero, false, err
	}
	for _, record := range records {
		if match(record) {
			return record, true, nil
		}
	}
	return zero, false, nil
}

// Save replaces the record with the same id or appends it, stamping its
// update time. It reports whether the record was new.
func (c *Collection[T]) Save(ctx context.Context, record T) (bool, error) {
	created := false
	err := c.kv.Within(ctx, func(ctx context.Context) error {
		records, err := c.read(ctx)
		if err != nil {
			return err
		}
		if c.schema.Touch != nil {
			record = c.schema.Touch(record, c.clock.Now())
		}
		id := c.schema.ID(record)
		for i := range records {
			if c.schema.ID(records[i]) == id {
				records[i] = record
				return c.write(ctx, records)
			}
		}
		created = true
		return c.write(ctx, append(records, record))
	})
	if err != nil {
		return false, fmt.Errorf("save %s: %w", c.schema.Key, err)
	}
	return created, nil
}

func (c *Collection[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	n, err := c.DeleteWhere(ctx, func(record T) bool { return c.schema.ID(record) == id })
	return n > 0, err
}

// DeleteWhere removes every record matching pred and returns how many went.
func (c *Collection[T]) DeleteWhere(ctx context.Context, pred func(T) bool) (int, error) {
	removed := 0
	err := c.kv.Within(ctx, func(ctx context.Context) error {
		records, err := c.read(ctx)
		if err != nil {
			return err
		}
		kept := records[:0]
		for _, record := range records {
			if pred(record) {
				removed++
				continue
			}
			kept = append(kept, record)
		}
		if removed == 0 {
			return nil
		}
		return c.write(ctx, kept)
	})
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", c.schema.Key, err)
	}
	return removed, nil
}

// UpdateWhere applies fn to every record; records for which fn reports a
// change are stamped and written back.
func (c *Collection[T]) UpdateWhere(ctx context.Context, fn func(T) (T, bool)) (int, error) {
	changed := 0
	err := c.kv.Within(ctx, func(ctx context.Context) error {
		records, err := c.read(ctx)
		if err != nil {
			return err
		}
		now := c.clock.Now()
		for i := range records {
			next, ok := fn(records[i])
			if !ok {
				continue
			}
			if c.schema.Touch != nil {
				next = c.schema.Touch(next, now)
			}
			records[i] = next
			changed++
		}
		if changed == 0 {
			return nil
		}
		return c.write(ctx, records)
	})
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", c.schema.Key, err)
	}
	return changed, nil
}

// Seed writes records only when the collection has never been stored.
func (c *Collection[T]) Seed(ctx context.Context, records []T) (bool, error) {
	seeded := false
	err := c.kv.Within(ctx, func(ctx context.Context) error {
		_, found, err := c.kv.Load(ctx, c.schema.Key)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		seeded = true
		return c.write(ctx, records)
	})
	if err != nil {
		return false, fmt.Errorf("seed %s: %w", c.schema.Key, err)
	}
	return seeded, nil
}

// read loads the collection. A missing key or an absent medium reads as
// empty; undecodable content is reported as ErrCorrupt.
func (c *Collection[T]) read(ctx context.Context) ([]T, error) {
	payload, found, err := c.kv.Load(ctx, c.schema.Key)
	if err != nil {
		if errors.Is(err, apperrors.ErrStorageUnavailable) {
			return []T{}, nil
		}
		return nil, err
	}
	if !found {
		return []T{}, nil
	}
	records, legacy, err := c.decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.schema.Key, err)
	}
	if legacy {
		c.migrate(ctx, records)
	}
	return records, nil
}

// migrate rewrites a version 0 payload as an envelope so the legacy decoder
// runs once. A failed rewrite is retried on the next read.
func (c *Collection[T]) migrate(ctx context.Context, records []T) {
	err := c.kv.Within(ctx, func(ctx context.Context) error {
		return c.write(ctx, records)
	})
	if err != nil {
		c.log.Warn("legacy collection not upgraded", "error", err)
		return
	}
	c.log.Info("upgraded legacy collection", "records", len(records))
}

func (c *Collection[T]) write(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(envelope[T]{SchemaVersion: SchemaVersion, Records: records})
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.schema.Key, err)
	}
	return c.kv.Put(ctx, c.schema.Key, payload)
}

// decode accepts the versioned envelope and the bare array written by
// schema version 0, reporting which one it found.
func (c *Collection[T]) decode(payload []byte) ([]T, bool, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return []T{}, false, nil
	}
	if trimmed[0] == '[' {
		if c.schema.Legacy != nil {
			records, err := c.schema.Legacy(trimmed)
			return records, err == nil, err
		}
		var legacy []T
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, false, err
		}
		return legacy, true, nil
	}
	var env envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, false, err
	}
	if env.SchemaVersion > SchemaVersion {
		return nil, false, fmt.Errorf("schema version %d is newer than supported %d", env.SchemaVersion, SchemaVersion)
	}
	if env.Records == nil {
		env.Records = []T{}
	}
	return env.Records, false, nil
}
