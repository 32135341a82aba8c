package out

import (
	"context"

	"selflab/internal/modules/experiment/domain"
	experimentout "selflab/internal/modules/experiment/port/out"
	templatein "selflab/internal/modules/template/port/in"
)

type LibraryTemplateSource struct {
	templates templatein.Usecase
}

func NewLibraryTemplateSource(templates templatein.Usecase) experimentout.TemplateSource {
	return LibraryTemplateSource{templates: templates}
}

func (s LibraryTemplateSource) GetPlan(ctx context.Context, templateID string) (domain.TemplatePlan, error) {
	t, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return domain.TemplatePlan{}, err
	}
	return domain.TemplatePlan{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		Hypothesis:   t.Hypothesis,
		DurationDays: t.DurationDays,
		Variables:    t.Variables,
		Metrics:      t.Metrics,
		Protocol:     t.Protocol,
	}, nil
}
