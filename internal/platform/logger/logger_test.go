package logger

import "testing"

func TestSanitizeKVsRedactsSecretsAndHashesUserIDs(t *testing.T) {
	t.Parallel()
	out := sanitizeKVs([]any{"email", "demo@selflab.com", "user_id", "u-1", "experiment_id", "e-1", "dangling"})
	if len(out) != 7 {
		t.Fatalf("expected 7 values, got %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("email should be redacted, got %v", out[1])
	}
	hashed, ok := out[3].(string)
	if !ok || len(hashed) != len("hash:")+12 {
		t.Fatalf("user id should be hashed, got %v", out[3])
	}
	if out[5] != "e-1" {
		t.Fatalf("experiment id should pass through, got %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key should be kept, got %v", out[6])
	}
}

func TestNewModes(t *testing.T) {
	t.Parallel()
	if _, err := New("off"); err != nil {
		t.Fatalf("off mode: %v", err)
	}
	if _, err := New("verbose"); err == nil {
		t.Fatalf("expected unsupported mode error")
	}
}
