package usecase

import (
	"context"

	"selflab/internal/modules/template/domain"
	"selflab/internal/modules/template/dto"
	templatein "selflab/internal/modules/template/port/in"
	"selflab/internal/modules/template/service"
)

type Interactor struct {
	svc *service.TemplateService
}

func NewInteractor(svc *service.TemplateService) templatein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ListTemplates(ctx context.Context) ([]dto.TemplateOutput, error) {
	templates, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(templates), nil
}

func (i *Interactor) GetTemplate(ctx context.Context, id string) (dto.TemplateOutput, error) {
	t, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.TemplateOutput{}, err
	}
	return toOutput(t), nil
}

func (i *Interactor) Search(ctx context.Context, input dto.SearchInput) ([]dto.TemplateOutput, error) {
	templates, err := i.svc.Search(ctx, input.Query, input.Category, input.Difficulty)
	if err != nil {
		return nil, err
	}
	return toOutputs(templates), nil
}

func (i *Interactor) Categories(ctx context.Context) ([]string, error) {
	return i.svc.Categories(ctx)
}

func toOutputs(templates []domain.Template) []dto.TemplateOutput {
	out := make([]dto.TemplateOutput, 0, len(templates))
	for _, t := range templates {
		out = append(out, toOutput(t))
	}
	return out
}

func toOutput(t domain.Template) dto.TemplateOutput {
	return dto.TemplateOutput{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		Hypothesis:   t.Hypothesis,
		Category:     t.Category,
		Difficulty:   string(t.Difficulty),
		DurationDays: t.DurationDays,
		Variables:    t.Variables,
		Metrics:      t.Metrics,
		Protocol:     t.Protocol,
	}
}
