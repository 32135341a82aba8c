package tx

import "context"

// Manager wraps transactional boundaries for operations spanning several
// collections. Writes made inside fn become visible together or not at all.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}
