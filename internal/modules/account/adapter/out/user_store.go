package out

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"selflab/internal/modules/account/domain"
	accountout "selflab/internal/modules/account/port/out"
	"selflab/internal/platform/clock"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/kv"
	"selflab/internal/platform/logger"
	"selflab/internal/platform/store"
)

const UsersKey = "selflab_users"

type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// legacyUser is the browser-era layout, which kept the password in clear.
type legacyUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

type KVUserStore struct {
	users *store.Collection[userRecord]
}

func NewKVUserStore(manager *kv.Manager, clk clock.Clock, hasher accountout.PasswordHasher, log *logger.Logger) accountout.UserStore {
	return &KVUserStore{users: store.NewCollection(manager, clk, log, store.Schema[userRecord]{
		Key: UsersKey,
		ID:  func(r userRecord) string { return r.ID },
		Touch: func(r userRecord, at time.Time) userRecord {
			r.UpdatedAt = at
			return r
		},
		Legacy: func(raw json.RawMessage) ([]userRecord, error) {
			return upgradeLegacyUsers(raw, hasher)
		},
	})}
}

func upgradeLegacyUsers(raw json.RawMessage, hasher accountout.PasswordHasher) ([]userRecord, error) {
	var legacy []legacyUser
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, err
	}
	out := make([]userRecord, 0, len(legacy))
	for _, u := range legacy {
		hash, err := hasher.Hash(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash legacy password: %w", err)
		}
		out = append(out, userRecord{
			ID:           u.ID,
			Email:        domain.NormalizeEmail(u.Email),
			Name:         u.Name,
			PasswordHash: hash,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.CreatedAt,
		})
	}
	return out, nil
}

func (s *KVUserStore) Save(ctx context.Context, user domain.User) error {
	_, err := s.users.Save(ctx, userRecord{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	return err
}

func (s *KVUserStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	record, ok, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return toDomain(record), nil
}

func (s *KVUserStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	record, ok, err := s.users.FindUniqueBy(ctx, func(r userRecord) bool { return r.Email == email })
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, fmt.Errorf("user with email: %w", apperrors.ErrNotFound)
	}
	return toDomain(record), nil
}

func toDomain(r userRecord) domain.User {
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
