package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/kv"
)

// Value is a single JSON record kept under its own key.
type Value[T any] struct {
	kv  *kv.Manager
	key string
}

func NewValue[T any](manager *kv.Manager, key string) *Value[T] {
	return &Value[T]{kv: manager, key: key}
}

// Get reports found=false when the key is unset or storage is absent.
func (v *Value[T]) Get(ctx context.Context) (T, bool, error) {
	var zero T
	payload, found, err := v.kv.Load(ctx, v.key)
	if err != nil {
		if errors.Is(err, apperrors.ErrStorageUnavailable) {
			return zero, false, nil
		}
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, v.key, err)
	}
	return out, true, nil
}

func (v *Value[T]) Set(ctx context.Context, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", v.key, err)
	}
	if err := v.kv.Put(ctx, v.key, payload); err != nil {
		return fmt.Errorf("write %s: %w", v.key, err)
	}
	return nil
}

func (v *Value[T]) Clear(ctx context.Context) error {
	if err := v.kv.Delete(ctx, v.key); err != nil {
		return fmt.Errorf("clear %s: %w", v.key, err)
	}
	return nil
}
