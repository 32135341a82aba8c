package in

import (
	"context"

	"selflab/internal/modules/template/dto"
)

type Usecase interface {
	ListTemplates(ctx context.Context) ([]dto.TemplateOutput, error)
	GetTemplate(ctx context.Context, id string) (dto.TemplateOutput, error)
	Search(ctx context.Context, input dto.SearchInput) ([]dto.TemplateOutput, error)
	Categories(ctx context.Context) ([]string, error)
}
