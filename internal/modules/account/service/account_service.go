package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"selflab/internal/modules/account/domain"
	accountout "selflab/internal/modules/account/port/out"
	"selflab/internal/platform/clock"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/id"
	"selflab/internal/platform/logger"
	"selflab/internal/platform/tx"
)

const resetMessage = "Password reset instructions sent to your email"

type AccountService struct {
	clock   clock.Clock
	idGen   id.Generator
	tx      tx.Manager
	users   accountout.UserStore
	pointer accountout.SessionPointer
	hasher  accountout.PasswordHasher
	tokens  accountout.TokenIssuer
	log     *logger.Logger
}

func NewAccountService(
	clock clock.Clock,
	idGen id.Generator,
	txm tx.Manager,
	users accountout.UserStore,
	pointer accountout.SessionPointer,
	hasher accountout.PasswordHasher,
	tokens accountout.TokenIssuer,
	log *logger.Logger,
) *AccountService {
	if log == nil {
		log = logger.Nop()
	}
	return &AccountService{clock: clock, idGen: idGen, tx: txm, users: users, pointer: pointer, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a user. The email check and the insert share one
// transaction so two registrations cannot both claim an address.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(email); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := domain.ValidatePassword(password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}
	now := s.clock.Now()
	user := domain.User{
		ID:           s.idGen.New(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return apperrors.ErrDuplicateIdentity
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return s.users.Save(ctx, user)
	})
	if err != nil {
		return domain.User{}, err
	}
	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Session{}, apperrors.ErrInvalidCredentials
		}
		return domain.Session{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return domain.Session{}, apperrors.ErrInvalidCredentials
	}
	return s.signIn(ctx, user)
}

func (s *AccountService) signIn(ctx context.Context, user domain.User) (domain.Session, error) {
	session := user.Session(s.clock.Now())
	token, err := s.tokens.Issue(session)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.pointer.Save(ctx, token); err != nil {
		return domain.Session{}, err
	}
	s.log.Info("signed in", "user_id", user.ID)
	return session, nil
}

func (s *AccountService) Logout(ctx context.Context) error {
	return s.pointer.Clear(ctx)
}

// Current resolves the stored pointer. A pointer that fails verification
// or names a deleted user counts as signed out.
func (s *AccountService) Current(ctx context.Context) (domain.Session, error) {
	token, err := s.pointer.Load(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	session, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Warn("discarding unverifiable session", "error", err)
		return domain.Session{}, apperrors.ErrNotSignedIn
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Session{}, apperrors.ErrNotSignedIn
		}
		return domain.Session{}, err
	}
	session.Email = user.Email
	session.Name = user.Name
	return session, nil
}

// RequestPasswordReset only confirms the address is known; no mail is sent.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if _, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email)); err != nil {
		return "", err
	}
	return resetMessage, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.tx.Within(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.hasher.Compare(user.PasswordHash, oldPassword); err != nil {
			return apperrors.ErrInvalidCredentials
		}
		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		return s.users.Save(ctx, user)
	})
}

// SetupDemo makes sure the demo account exists and signs in as it.
func (s *AccountService) SetupDemo(ctx context.Context) (domain.Session, error) {
	user, err := s.users.FindByEmail(ctx, domain.DemoEmail)
	if errors.Is(err, apperrors.ErrNotFound) {
		user, err = s.Register(ctx, domain.DemoEmail, domain.DemoPassword, domain.DemoName)
	}
	if err != nil {
		return domain.Session{}, err
	}
	return s.signIn(ctx, user)
}
