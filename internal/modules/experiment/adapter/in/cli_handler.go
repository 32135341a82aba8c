package in

import (
	"context"

	"selflab/internal/modules/experiment/dto"
	experimentin "selflab/internal/modules/experiment/port/in"
)

type CLIHandler struct {
	usecase experimentin.Usecase
}

func NewCLIHandler(usecase experimentin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, input dto.CreateInput) (dto.ExperimentOutput, error) {
	return h.usecase.Create(ctx, input)
}

func (h CLIHandler) CreateFromTemplate(ctx context.Context, input dto.FromTemplateInput) (dto.ExperimentOutput, error) {
	return h.usecase.CreateFromTemplate(ctx, input)
}

func (h CLIHandler) List(ctx context.Context, userID, status string) ([]dto.ExperimentOutput, error) {
	return h.usecase.List(ctx, dto.ListInput{UserID: userID, Status: status})
}

func (h CLIHandler) Get(ctx context.Context, userID, experimentID string) (dto.ExperimentOutput, error) {
	return h.usecase.Get(ctx, userID, experimentID)
}

func (h CLIHandler) Update(ctx context.Context, input dto.UpdateInput) (dto.ExperimentOutput, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) SetStatus(ctx context.Context, userID, experimentID, status string) (dto.ExperimentOutput, error) {
	return h.usecase.SetStatus(ctx, dto.StatusInput{UserID: userID, ExperimentID: experimentID, Status: status})
}

func (h CLIHandler) Delete(ctx context.Context, userID, experimentID string) (dto.DeleteOutput, error) {
	return h.usecase.Delete(ctx, userID, experimentID)
}
