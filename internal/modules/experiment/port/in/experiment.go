package in

import (
	"context"

	"selflab/internal/modules/experiment/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.ExperimentOutput, error)
	CreateFromTemplate(ctx context.Context, input dto.FromTemplateInput) (dto.ExperimentOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.ExperimentOutput, error)
	Get(ctx context.Context, userID, experimentID string) (dto.ExperimentOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.ExperimentOutput, error)
	SetStatus(ctx context.Context, input dto.StatusInput) (dto.ExperimentOutput, error)
	Delete(ctx context.Context, userID, experimentID string) (dto.DeleteOutput, error)
}
