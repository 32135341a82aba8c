package in

import (
	"context"

	"selflab/internal/modules/insight/dto"
	insightin "selflab/internal/modules/insight/port/in"
)

type CLIHandler struct {
	usecase insightin.Usecase
}

func NewCLIHandler(usecase insightin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Progress(ctx context.Context, userID, experimentID string) (dto.ProgressOutput, error) {
	return h.usecase.ExperimentProgress(ctx, userID, experimentID)
}

func (h CLIHandler) Summary(ctx context.Context, userID, experimentID string) (dto.SummaryOutput, error) {
	return h.usecase.ExperimentSummary(ctx, userID, experimentID)
}

func (h CLIHandler) Trend(ctx context.Context, userID, metric, experimentID string) (dto.TrendOutput, error) {
	return h.usecase.MetricTrend(ctx, dto.TrendInput{UserID: userID, Metric: metric, ExperimentID: experimentID})
}

func (h CLIHandler) Stats(ctx context.Context, userID string) (dto.StatsOutput, error) {
	return h.usecase.UserStats(ctx, userID)
}

func (h CLIHandler) Report(ctx context.Context, userID, experimentID string) (dto.ReportOutput, error) {
	return h.usecase.ExportReport(ctx, userID, experimentID)
}
