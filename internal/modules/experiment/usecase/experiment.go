package usecase

import (
	"context"

	"selflab/internal/modules/experiment/domain"
	"selflab/internal/modules/experiment/dto"
	experimentin "selflab/internal/modules/experiment/port/in"
	"selflab/internal/modules/experiment/service"
)

type Interactor struct {
	svc *service.ExperimentService
}

func NewInteractor(svc *service.ExperimentService) experimentin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.ExperimentOutput, error) {
	exp, err := i.svc.Create(ctx, service.Draft{
		UserID:       input.UserID,
		Name:         input.Name,
		Hypothesis:   input.Hypothesis,
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		DurationDays: input.DurationDays,
		Variables:    input.Variables,
		Metrics:      input.Metrics,
		Notes:        input.Notes,
	})
	if err != nil {
		return dto.ExperimentOutput{}, err
	}
	return toOutput(exp), nil
}

func (i *Interactor) CreateFromTemplate(ctx context.Context, input dto.FromTemplateInput) (dto.ExperimentOutput, error) {
	exp, err := i.svc.CreateFromTemplate(ctx, input.UserID, input.TemplateID, input.StartDate)
	if err != nil {
		return dto.ExperimentOutput{}, err
	}
	return toOutput(exp), nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) ([]dto.ExperimentOutput, error) {
	experiments, err := i.svc.List(ctx, input.UserID, domain.Status(input.Status))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExperimentOutput, 0, len(experiments))
	for _, exp := range experiments {
		out = append(out, toOutput(exp))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, userID, experimentID string) (dto.ExperimentOutput, error) {
	exp, err := i.svc.Get(ctx, userID, experimentID)
	if err != nil {
		return dto.ExperimentOutput{}, err
	}
	return toOutput(exp), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) (dto.ExperimentOutput, error) {
	exp, err := i.svc.Update(ctx, input.UserID, input.ExperimentID, service.Patch{
		Name:        input.Name,
		Hypothesis:  input.Hypothesis,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Variables:   input.Variables,
		Metrics:     input.Metrics,
		Notes:       input.Notes,
	})
	if err != nil {
		return dto.ExperimentOutput{}, err
	}
	return toOutput(exp), nil
}

func (i *Interactor) SetStatus(ctx context.Context, input dto.StatusInput) (dto.ExperimentOutput, error) {
	exp, err := i.svc.SetStatus(ctx, input.UserID, input.ExperimentID, domain.Status(input.Status))
	if err != nil {
		return dto.ExperimentOutput{}, err
	}
	return toOutput(exp), nil
}

func (i *Interactor) Delete(ctx context.Context, userID, experimentID string) (dto.DeleteOutput, error) {
	deleted, removed, err := i.svc.Delete(ctx, userID, experimentID)
	if err != nil {
		return dto.DeleteOutput{}, err
	}
	return dto.DeleteOutput{Deleted: deleted, LogsRemoved: removed}, nil
}

func toOutput(exp domain.Experiment) dto.ExperimentOutput {
	return dto.ExperimentOutput{
		ID:           exp.ID,
		UserID:       exp.UserID,
		Name:         exp.Name,
		Hypothesis:   exp.Hypothesis,
		Description:  exp.Description,
		StartDate:    exp.StartDate,
		EndDate:      exp.EndDate,
		DurationDays: exp.DurationDays(),
		Status:       string(exp.Status),
		Variables:    exp.Variables,
		Metrics:      exp.Metrics,
		Notes:        exp.Notes,
		TemplateID:   exp.TemplateID,
		CreatedAt:    exp.CreatedAt,
		UpdatedAt:    exp.UpdatedAt,
	}
}
