package kv

import (
	"context"
	"sync"

	apperrors "selflab/internal/platform/errors"
)

type MemoryMedium struct {
	mu     sync.Mutex
	quota  int64
	values map[string][]byte
}

// NewMemoryMedium returns an empty in-process medium. A quota of zero
// disables the size limit.
func NewMemoryMedium(quota int64) *MemoryMedium {
	return &MemoryMedium{quota: quota, values: map[string][]byte{}}
}

func (m *MemoryMedium) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryMedium) Commit(_ context.Context, writes []Write) error {
	if err := checkKeys(writes); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota > 0 {
		sizes := make(map[string]int64, len(m.values))
		for k, v := range m.values {
			sizes[k] = int64(len(v))
		}
		if projectedSize(sizes, writes) > m.quota {
			return apperrors.ErrQuotaExceeded
		}
	}
	for _, w := range writes {
		if w.Delete {
			delete(m.values, w.Key)
			continue
		}
		m.values[w.Key] = append([]byte(nil), w.Value...)
	}
	return nil
}

func (m *MemoryMedium) Close() error { return nil }

func projectedSize(current map[string]int64, writes []Write) int64 {
	for _, w := range writes {
		if w.Delete {
			delete(current, w.Key)
			continue
		}
		current[w.Key] = int64(len(w.Value))
	}
	var total int64
	for _, n := range current {
		total += n
	}
	return total
}
