package kv_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/kv"
)

func media(t *testing.T) map[string]kv.Medium {
	t.Helper()
	dir := t.TempDir()
	file, err := kv.NewFileMedium(filepath.Join(dir, "store"), 0)
	if err != nil {
		t.Fatalf("new file medium: %v", err)
	}
	sqlite, err := kv.NewSQLiteMedium(filepath.Join(dir, "selflab.db"), 0)
	if err != nil {
		t.Fatalf("new sqlite medium: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]kv.Medium{
		"file":   file,
		"sqlite": sqlite,
		"memory": kv.NewMemoryMedium(0),
	}
}

func TestMediaCommitLoadAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, medium := range media(t) {
		if _, found, err := medium.Load(ctx, "selflab_users"); err != nil || found {
			t.Fatalf("%s: expected missing key, found=%v err=%v", name, found, err)
		}
		err := medium.Commit(ctx, []kv.Write{
			{Key: "selflab_users", Value: []byte(`[1]`)},
			{Key: "selflab_experiments", Value: []byte(`[2]`)},
		})
		if err != nil {
			t.Fatalf("%s: commit: %v", name, err)
		}
		got, found, err := medium.Load(ctx, "selflab_experiments")
		if err != nil || !found || string(got) != `[2]` {
			t.Fatalf("%s: unexpected load %q found=%v err=%v", name, got, found, err)
		}
		if err := medium.Commit(ctx, []kv.Write{{Key: "selflab_users", Delete: true}}); err != nil {
			t.Fatalf("%s: delete: %v", name, err)
		}
		if _, found, _ := medium.Load(ctx, "selflab_users"); found {
			t.Fatalf("%s: key should be gone after delete", name)
		}
	}
}

func TestMediaRejectUnsafeKeys(t *testing.T) {
	t.Parallel()
	for name, medium := range media(t) {
		err := medium.Commit(context.Background(), []kv.Write{{Key: "../escape", Value: []byte(`{}`)}})
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestQuotaRejectsWholeCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	file, err := kv.NewFileMedium(filepath.Join(dir, "store"), 16)
	if err != nil {
		t.Fatalf("new file medium: %v", err)
	}
	sqlite, err := kv.NewSQLiteMedium(filepath.Join(dir, "selflab.db"), 16)
	if err != nil {
		t.Fatalf("new sqlite medium: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	for name, medium := range map[string]kv.Medium{"file": file, "sqlite": sqlite, "memory": kv.NewMemoryMedium(16)} {
		if err := medium.Commit(ctx, []kv.Write{{Key: "a", Value: []byte("12345678")}}); err != nil {
			t.Fatalf("%s: first commit: %v", name, err)
		}
		err := medium.Commit(ctx, []kv.Write{
			{Key: "b", Value: []byte("1234")},
			{Key: "c", Value: []byte("123456789")},
		})
		if !errors.Is(err, apperrors.ErrQuotaExceeded) {
			t.Fatalf("%s: expected quota error, got %v", name, err)
		}
		if _, found, _ := medium.Load(ctx, "b"); found {
			t.Fatalf("%s: partial write leaked past quota failure", name)
		}
		if err := medium.Commit(ctx, []kv.Write{{Key: "a", Value: []byte("1")}, {Key: "b", Value: []byte("123456789")}}); err != nil {
			t.Fatalf("%s: replacing within quota should pass: %v", name, err)
		}
	}
}

func TestFileMediumLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	medium, err := kv.NewFileMedium(dir, 0)
	if err != nil {
		t.Fatalf("new file medium: %v", err)
	}
	if err := medium.Commit(context.Background(), []kv.Write{{Key: "selflab_templates", Value: []byte(`[]`)}}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "selflab_templates.json" {
		t.Fatalf("unexpected store dir contents: %v", entries)
	}
}

func TestUnavailableMedium(t *testing.T) {
	t.Parallel()
	var medium kv.Unavailable
	if _, _, err := medium.Load(context.Background(), "selflab_users"); !errors.Is(err, apperrors.ErrStorageUnavailable) {
		t.Fatalf("expected unavailable on load, got %v", err)
	}
	if err := medium.Commit(context.Background(), []kv.Write{{Key: "selflab_users"}}); !errors.Is(err, apperrors.ErrStorageUnavailable) {
		t.Fatalf("expected unavailable on commit, got %v", err)
	}
}

func TestManagerWithinCommitsOnceAndDiscardsOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	medium := kv.NewMemoryMedium(0)
	m := kv.NewManager(medium)

	boom := errors.New("boom")
	err := m.Within(ctx, func(ctx context.Context) error {
		if err := m.Put(ctx, "selflab_users", []byte(`[1]`)); err != nil {
			return err
		}
		got, found, _ := m.Load(ctx, "selflab_users")
		if !found || string(got) != `[1]` {
			t.Fatalf("staged write should be visible inside the transaction")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if _, found, _ := medium.Load(ctx, "selflab_users"); found {
		t.Fatalf("failed transaction must not commit")
	}

	err = m.Within(ctx, func(ctx context.Context) error {
		if err := m.Put(ctx, "selflab_users", []byte(`[1]`)); err != nil {
			return err
		}
		return m.Within(ctx, func(ctx context.Context) error {
			if err := m.Delete(ctx, "selflab_users"); err != nil {
				return err
			}
			if _, found, _ := m.Load(ctx, "selflab_users"); found {
				t.Fatalf("staged delete should hide the key")
			}
			return m.Put(ctx, "selflab_daily_logs", []byte(`[2]`))
		})
	})
	if err != nil {
		t.Fatalf("within: %v", err)
	}
	if _, found, _ := medium.Load(ctx, "selflab_users"); found {
		t.Fatalf("deleted key should not be committed")
	}
	if got, _, _ := medium.Load(ctx, "selflab_daily_logs"); string(got) != `[2]` {
		t.Fatalf("nested write should be committed, got %q", got)
	}
}
