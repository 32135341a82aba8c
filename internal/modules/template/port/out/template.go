package out

import (
	"context"

	"selflab/internal/modules/template/domain"
)

type TemplateStore interface {
	List(ctx context.Context) ([]domain.Template, error)
	Seed(ctx context.Context, templates []domain.Template) (bool, error)
}

// Catalog supplies the built-in templates.
type Catalog interface {
	Defaults() ([]domain.Template, error)
}
