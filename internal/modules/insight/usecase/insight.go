package usecase

import (
	"context"

	"selflab/internal/modules/insight/domain"
	"selflab/internal/modules/insight/dto"
	insightin "selflab/internal/modules/insight/port/in"
	"selflab/internal/modules/insight/service"
)

type Interactor struct {
	svc *service.InsightService
}

func NewInteractor(svc *service.InsightService) insightin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ExperimentProgress(ctx context.Context, userID, experimentID string) (dto.ProgressOutput, error) {
	exp, pct, err := i.svc.Progress(ctx, userID, experimentID)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	return dto.ProgressOutput{
		ExperimentID: exp.ID,
		Name:         exp.Name,
		StartDate:    exp.StartDate,
		EndDate:      exp.EndDate,
		Percent:      pct,
	}, nil
}

func (i *Interactor) ExperimentSummary(ctx context.Context, userID, experimentID string) (dto.SummaryOutput, error) {
	summary, err := i.svc.Summary(ctx, userID, experimentID)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	trends := make([]dto.TrendOutput, 0, len(summary.Trends))
	for _, t := range summary.Trends {
		trends = append(trends, toTrendOutput(t))
	}
	return dto.SummaryOutput{
		ExperimentID:  summary.Experiment.ID,
		Name:          summary.Experiment.Name,
		Status:        summary.Experiment.Status,
		Progress:      summary.Progress,
		Compliance:    summary.Compliance.Rate,
		CompliantDays: summary.Compliance.Compliant,
		CountedDays:   summary.Compliance.Counted,
		DaysLogged:    summary.DaysLogged,
		Trends:        trends,
	}, nil
}

func (i *Interactor) MetricTrend(ctx context.Context, input dto.TrendInput) (dto.TrendOutput, error) {
	metric, err := domain.ParseMetric(input.Metric)
	if err != nil {
		return dto.TrendOutput{}, err
	}
	trend, err := i.svc.Trend(ctx, input.UserID, metric, input.ExperimentID)
	if err != nil {
		return dto.TrendOutput{}, err
	}
	return toTrendOutput(trend), nil
}

func (i *Interactor) UserStats(ctx context.Context, userID string) (dto.StatsOutput, error) {
	stats, err := i.svc.UserStats(ctx, userID)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	return dto.StatsOutput{
		TotalExperiments:     stats.TotalExperiments,
		ActiveExperiments:    stats.ActiveExperiments,
		CompletedExperiments: stats.CompletedExperiments,
		PausedExperiments:    stats.PausedExperiments,
		TotalLogs:            stats.TotalLogs,
		CurrentStreak:        stats.CurrentStreak,
		AvgMood:              stats.AvgMood,
		AvgEnergy:            stats.AvgEnergy,
		AvgSleep:             stats.AvgSleep,
	}, nil
}

func (i *Interactor) ExportReport(ctx context.Context, userID, experimentID string) (dto.ReportOutput, error) {
	path, content, err := i.svc.ExportReport(ctx, userID, experimentID)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return dto.ReportOutput{Path: path, Markdown: content}, nil
}

func toTrendOutput(t domain.MetricTrend) dto.TrendOutput {
	return dto.TrendOutput{
		Metric:    string(t.Metric),
		Direction: string(t.Trend.Direction),
		Percent:   t.Trend.Percent,
		Label:     t.Trend.Label(),
		Average:   domain.Average(t.Values),
		Values:    append([]float64(nil), t.Values...),
	}
}
