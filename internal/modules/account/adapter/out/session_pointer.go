package out

import (
	"context"
	"errors"

	accountout "selflab/internal/modules/account/port/out"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/kv"
	"selflab/internal/platform/store"
)

const CurrentUserKey = "selflab_current_user"

type KVSessionPointer struct {
	value *store.Value[string]
}

func NewKVSessionPointer(manager *kv.Manager) accountout.SessionPointer {
	return &KVSessionPointer{value: store.NewValue[string](manager, CurrentUserKey)}
}

func (p *KVSessionPointer) Save(ctx context.Context, token string) error {
	return p.value.Set(ctx, token)
}

// Load treats a pointer in any other shape, such as the serialized user the
// browser version stored, as no session.
func (p *KVSessionPointer) Load(ctx context.Context) (string, error) {
	token, ok, err := p.value.Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			return "", apperrors.ErrNotSignedIn
		}
		return "", err
	}
	if !ok || token == "" {
		return "", apperrors.ErrNotSignedIn
	}
	return token, nil
}

func (p *KVSessionPointer) Clear(ctx context.Context) error {
	return p.value.Clear(ctx)
}
