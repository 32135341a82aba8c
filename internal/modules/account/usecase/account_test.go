package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	accountout "selflab/internal/modules/account/adapter/out"
	"selflab/internal/modules/account/dto"
	accountin "selflab/internal/modules/account/port/in"
	"selflab/internal/modules/account/service"
	"selflab/internal/modules/account/usecase"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/kv"
)

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return "user-" + string(rune('0'+s.n))
}

func newAccounts(t *testing.T, medium kv.Medium) (accountin.Usecase, *kv.Manager) {
	t.Helper()
	manager := kv.NewManager(medium)
	clk := fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	hasher := accountout.NewBcryptHasher(bcrypt.MinCost)
	svc := service.NewAccountService(
		clk,
		&seqID{},
		manager,
		accountout.NewKVUserStore(manager, clk, hasher, nil),
		accountout.NewKVSessionPointer(manager),
		hasher,
		accountout.NewJWTIssuer([]byte("0123456789abcdef0123456789abcdef")),
		nil,
	)
	return usecase.NewInteractor(svc), manager
}

func TestRegisterLoginCurrentLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _ := newAccounts(t, kv.NewMemoryMedium(0))

	user, err := uc.Register(ctx, dto.RegisterInput{Email: " Ada@Example.com ", Password: "secret1", Name: "Ada"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email should be normalized, got %q", user.Email)
	}

	if _, err := uc.Current(ctx); !errors.Is(err, apperrors.ErrNotSignedIn) {
		t.Fatalf("expected not signed in before login, got %v", err)
	}
	if _, err := uc.Login(ctx, dto.LoginInput{Email: "ada@example.com", Password: "wrong-password"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := uc.Login(ctx, dto.LoginInput{Email: "nobody@example.com", Password: "secret1"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("unknown email should look like bad credentials, got %v", err)
	}

	session, err := uc.Login(ctx, dto.LoginInput{Email: "ADA@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.UserID != user.ID {
		t.Fatalf("session user mismatch: %s vs %s", session.UserID, user.ID)
	}
	current, err := uc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.UserID != user.ID || current.Name != "Ada" {
		t.Fatalf("unexpected current session: %+v", current)
	}

	if err := uc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := uc.Logout(ctx); err != nil {
		t.Fatalf("second logout should be a no-op: %v", err)
	}
	if _, err := uc.Current(ctx); !errors.Is(err, apperrors.ErrNotSignedIn) {
		t.Fatalf("expected not signed in after logout, got %v", err)
	}
}

func TestDuplicateRegistrationKeepsOneUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	medium := kv.NewMemoryMedium(0)
	uc, _ := newAccounts(t, medium)

	if _, err := uc.Register(ctx, dto.RegisterInput{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	before, _, _ := medium.Load(ctx, accountout.UsersKey)
	_, err := uc.Register(ctx, dto.RegisterInput{Email: "A@B.com", Password: "other-secret"})
	if !errors.Is(err, apperrors.ErrDuplicateIdentity) {
		t.Fatalf("expected duplicate identity, got %v", err)
	}
	after, _, _ := medium.Load(ctx, accountout.UsersKey)
	if string(before) != string(after) {
		t.Fatalf("failed registration must not change stored users")
	}
	if _, err := uc.Login(ctx, dto.LoginInput{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("original credentials should still work: %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	t.Parallel()
	uc, _ := newAccounts(t, kv.NewMemoryMedium(0))
	cases := []dto.RegisterInput{
		{Email: "not-an-email", Password: "secret1"},
		{Email: "a@b.com", Password: "short"},
	}
	for _, input := range cases {
		if _, err := uc.Register(context.Background(), input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", input, err)
		}
	}
}

func TestSetupDemoIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _ := newAccounts(t, kv.NewMemoryMedium(0))
	first, err := uc.SetupDemo(ctx)
	if err != nil {
		t.Fatalf("setup demo: %v", err)
	}
	second, err := uc.SetupDemo(ctx)
	if err != nil {
		t.Fatalf("setup demo again: %v", err)
	}
	if first.UserID != second.UserID || first.Email != "demo@selflab.com" {
		t.Fatalf("demo account should be reused: %+v vs %+v", first, second)
	}
	current, err := uc.Current(ctx)
	if err != nil || current.UserID != first.UserID {
		t.Fatalf("demo should be signed in, got %+v err=%v", current, err)
	}
}

func TestPasswordResetAndChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _ := newAccounts(t, kv.NewMemoryMedium(0))
	user, err := uc.Register(ctx, dto.RegisterInput{Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := uc.RequestPasswordReset(ctx, "missing@b.com"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	msg, err := uc.RequestPasswordReset(ctx, "a@b.com")
	if err != nil || msg.Message == "" {
		t.Fatalf("reset: %+v err=%v", msg, err)
	}

	err = uc.ChangePassword(ctx, dto.ChangePasswordInput{UserID: user.ID, OldPassword: "nope123", NewPassword: "secret2"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if err := uc.ChangePassword(ctx, dto.ChangePasswordInput{UserID: user.ID, OldPassword: "secret1", NewPassword: "secret2"}); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := uc.Login(ctx, dto.LoginInput{Email: "a@b.com", Password: "secret2"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestTamperedPointerCountsAsSignedOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	medium := kv.NewMemoryMedium(0)
	uc, _ := newAccounts(t, medium)
	if _, err := uc.SetupDemo(ctx); err != nil {
		t.Fatalf("setup demo: %v", err)
	}
	if err := medium.Commit(ctx, []kv.Write{{Key: accountout.CurrentUserKey, Value: []byte(`"eyJhbGciOiJIUzI1NiJ9.e30.forged"`)}}); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if _, err := uc.Current(ctx); !errors.Is(err, apperrors.ErrNotSignedIn) {
		t.Fatalf("expected forged token to be rejected, got %v", err)
	}
	if err := medium.Commit(ctx, []kv.Write{{Key: accountout.CurrentUserKey, Value: []byte(`{"id":"u1","email":"a@b.com"}`)}}); err != nil {
		t.Fatalf("write legacy pointer: %v", err)
	}
	if _, err := uc.Current(ctx); !errors.Is(err, apperrors.ErrNotSignedIn) {
		t.Fatalf("expected legacy pointer to be ignored, got %v", err)
	}
}

func TestLegacyUsersAreHashedOnRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	medium := kv.NewMemoryMedium(0)
	legacy := `[{"id":"old-1","email":"Old@Example.com","password":"hunter22","createdAt":"2025-01-01T00:00:00Z"}]`
	if err := medium.Commit(ctx, []kv.Write{{Key: accountout.UsersKey, Value: []byte(legacy)}}); err != nil {
		t.Fatalf("seed legacy users: %v", err)
	}
	uc, _ := newAccounts(t, medium)
	session, err := uc.Login(ctx, dto.LoginInput{Email: "old@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("legacy login: %v", err)
	}
	if session.UserID != "old-1" {
		t.Fatalf("legacy id should be kept, got %s", session.UserID)
	}
	raw, _, err := medium.Load(ctx, accountout.UsersKey)
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if strings.Contains(string(raw), "hunter22") || !strings.HasPrefix(string(raw), `{"schema_version":1`) {
		t.Fatalf("legacy users should be rewritten hashed after the first read, got %s", raw)
	}
	if _, err := uc.Login(ctx, dto.LoginInput{Email: "old@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("login after upgrade: %v", err)
	}
}

func TestUnavailableStorageRejectsRegistration(t *testing.T) {
	t.Parallel()
	uc, _ := newAccounts(t, kv.Unavailable{})
	_, err := uc.Register(context.Background(), dto.RegisterInput{Email: "a@b.com", Password: "secret1"})
	if !errors.Is(err, apperrors.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
	if _, err := uc.Current(context.Background()); !errors.Is(err, apperrors.ErrNotSignedIn) {
		t.Fatalf("expected not signed in, got %v", err)
	}
}
