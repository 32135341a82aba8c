package in

import (
	"context"

	"selflab/internal/modules/insight/dto"
)

type Usecase interface {
	ExperimentProgress(ctx context.Context, userID, experimentID string) (dto.ProgressOutput, error)
	ExperimentSummary(ctx context.Context, userID, experimentID string) (dto.SummaryOutput, error)
	MetricTrend(ctx context.Context, input dto.TrendInput) (dto.TrendOutput, error)
	UserStats(ctx context.Context, userID string) (dto.StatsOutput, error)
	ExportReport(ctx context.Context, userID, experimentID string) (dto.ReportOutput, error)
}
