package in

import (
	"context"

	"selflab/internal/modules/template/dto"
	templatein "selflab/internal/modules/template/port/in"
)

type CLIHandler struct {
	usecase templatein.Usecase
}

func NewCLIHandler(usecase templatein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListTemplates(ctx context.Context) ([]dto.TemplateOutput, error) {
	return h.usecase.ListTemplates(ctx)
}

func (h CLIHandler) GetTemplate(ctx context.Context, id string) (dto.TemplateOutput, error) {
	return h.usecase.GetTemplate(ctx, id)
}

func (h CLIHandler) Search(ctx context.Context, query, category, difficulty string) ([]dto.TemplateOutput, error) {
	return h.usecase.Search(ctx, dto.SearchInput{Query: query, Category: category, Difficulty: difficulty})
}

func (h CLIHandler) Categories(ctx context.Context) ([]string, error) {
	return h.usecase.Categories(ctx)
}
