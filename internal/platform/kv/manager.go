package kv

import (
	"context"
	"sync"
)

type txKey struct{}

// Tx buffers writes until the outermost Within returns.
type Tx struct {
	staged map[string]Write
	order  []string
}

func (t *Tx) stage(w Write) {
	if _, ok := t.staged[w.Key]; !ok {
		t.order = append(t.order, w.Key)
	}
	t.staged[w.Key] = w
}

func (t *Tx) writes() []Write {
	out := make([]Write, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.staged[key])
	}
	return out
}

// Manager reads and writes a Medium, joining the transaction carried by
// ctx when there is one. It implements tx.Manager.
type Manager struct {
	medium Medium
	mu     sync.Mutex
}

func NewManager(medium Medium) *Manager {
	return &Manager{medium: medium}
}

func (m *Manager) Medium() Medium { return m.medium }

func txFrom(ctx context.Context) *Tx {
	t, _ := ctx.Value(txKey{}).(*Tx)
	return t
}

// Within runs fn with a transaction on its context and commits the staged
// writes once fn succeeds. Nested calls join the outer transaction.
func (m *Manager) Within(ctx context.Context, fn func(context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &Tx{staged: map[string]Write{}}
	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}
	if len(t.order) == 0 {
		return nil
	}
	return m.medium.Commit(ctx, t.writes())
}

func (m *Manager) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if t := txFrom(ctx); t != nil {
		if w, ok := t.staged[key]; ok {
			if w.Delete {
				return nil, false, nil
			}
			return append([]byte(nil), w.Value...), true, nil
		}
	}
	return m.medium.Load(ctx, key)
}

func (m *Manager) Put(ctx context.Context, key string, value []byte) error {
	return m.apply(ctx, Write{Key: key, Value: append([]byte(nil), value...)})
}

func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.apply(ctx, Write{Key: key, Delete: true})
}

func (m *Manager) apply(ctx context.Context, w Write) error {
	if t := txFrom(ctx); t != nil {
		t.stage(w)
		return nil
	}
	return m.medium.Commit(ctx, []Write{w})
}
