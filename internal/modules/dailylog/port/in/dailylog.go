package in

import (
	"context"

	"selflab/internal/modules/dailylog/dto"
)

type Usecase interface {
	SaveLog(ctx context.Context, input dto.SaveLogInput) (dto.LogOutput, error)
	GetLog(ctx context.Context, input dto.GetLogInput) (dto.LogOutput, error)
	ListLogs(ctx context.Context, input dto.ListLogsInput) ([]dto.LogOutput, error)
	PurgeExperiment(ctx context.Context, experimentID string) (dto.PurgeOutput, error)
}
