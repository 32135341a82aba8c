package out_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	accountout "selflab/internal/modules/account/adapter/out"
	"selflab/internal/modules/account/domain"
)

func TestLoadOrCreateSecretPersists(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "session.key")
	first, err := accountout.LoadOrCreateSecret(path)
	if err != nil {
		t.Fatalf("create secret: %v", err)
	}
	second, err := accountout.LoadOrCreateSecret(path)
	if err != nil {
		t.Fatalf("load secret: %v", err)
	}
	if string(first) != string(second) || len(first) != 32 {
		t.Fatalf("secret should be stable 32 bytes")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestJWTIssuerRoundTripAndRejectsOtherKeys(t *testing.T) {
	t.Parallel()
	issuer := accountout.NewJWTIssuer([]byte("0123456789abcdef0123456789abcdef"))
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	token, err := issuer.Issue(domain.Session{UserID: "u1", Email: "a@b.com", Name: "A", SignedInAt: at})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	session, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if session.UserID != "u1" || session.Email != "a@b.com" || !session.SignedInAt.Equal(at) {
		t.Fatalf("unexpected session: %+v", session)
	}
	other := accountout.NewJWTIssuer([]byte("ffffffffffffffffffffffffffffffff"))
	if _, err := other.Verify(token); err == nil {
		t.Fatalf("token signed with another key must fail")
	}
}
