package out

import (
	"context"

	"selflab/internal/modules/account/domain"
)

type UserStore interface {
	Save(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// SessionPointer persists the token of the signed-in user.
type SessionPointer interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(session domain.Session) (string, error)
	Verify(token string) (domain.Session, error)
}
