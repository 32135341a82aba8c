package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "selflab/internal/platform/errors"
)

// FileMedium keeps one JSON file per key under dir.
type FileMedium struct {
	mu    sync.Mutex
	dir   string
	quota int64
}

func NewFileMedium(dir string, quota int64) (*FileMedium, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("store dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileMedium{dir: dir, quota: quota}, nil
}

func (m *FileMedium) path(key string) string {
	return filepath.Join(m.dir, key+".json")
}

func (m *FileMedium) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, err := os.ReadFile(m.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return payload, true, nil
}

type previous struct {
	value  []byte
	exists bool
}

func (m *FileMedium) Commit(_ context.Context, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	if err := checkKeys(writes); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		sizes, err := m.sizes()
		if err != nil {
			return err
		}
		if projectedSize(sizes, writes) > m.quota {
			return apperrors.ErrQuotaExceeded
		}
	}

	backups := make(map[string]previous, len(writes))
	for _, w := range writes {
		if _, seen := backups[w.Key]; seen {
			continue
		}
		payload, err := os.ReadFile(m.path(w.Key))
		switch {
		case err == nil:
			backups[w.Key] = previous{value: payload, exists: true}
		case errors.Is(err, os.ErrNotExist):
			backups[w.Key] = previous{}
		default:
			return fmt.Errorf("snapshot %s: %w", w.Key, err)
		}
	}

	temps := make([]string, len(writes))
	for i, w := range writes {
		if w.Delete {
			continue
		}
		tmp, err := os.CreateTemp(m.dir, "."+w.Key+"-*.tmp")
		if err != nil {
			m.removeTemps(temps)
			return fmt.Errorf("stage %s: %w", w.Key, err)
		}
		temps[i] = tmp.Name()
		_, werr := tmp.Write(w.Value)
		cerr := tmp.Close()
		if werr != nil || cerr != nil {
			m.removeTemps(temps)
			return fmt.Errorf("stage %s: %w", w.Key, errors.Join(werr, cerr))
		}
	}

	for i, w := range writes {
		var err error
		if w.Delete {
			err = os.Remove(m.path(w.Key))
			if errors.Is(err, os.ErrNotExist) {
				err = nil
			}
		} else {
			err = os.Rename(temps[i], m.path(w.Key))
			temps[i] = ""
		}
		if err != nil {
			m.removeTemps(temps)
			m.restore(backups)
			return fmt.Errorf("commit %s: %w", w.Key, err)
		}
	}
	return nil
}

func (m *FileMedium) Close() error { return nil }

func (m *FileMedium) sizes() (map[string]int64, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("scan store dir: %w", err)
	}
	out := map[string]int64{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		out[strings.TrimSuffix(name, ".json")] = info.Size()
	}
	return out, nil
}

func (m *FileMedium) removeTemps(temps []string) {
	for _, tmp := range temps {
		if tmp != "" {
			_ = os.Remove(tmp)
		}
	}
}

func (m *FileMedium) restore(backups map[string]previous) {
	for key, prev := range backups {
		if !prev.exists {
			_ = os.Remove(m.path(key))
			continue
		}
		_ = os.WriteFile(m.path(key), prev.value, 0o644)
	}
}
