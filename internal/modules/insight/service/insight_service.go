package service

import (
	"context"
	"fmt"

	"selflab/internal/modules/insight/domain"
	insightout "selflab/internal/modules/insight/port/out"
	"selflab/internal/platform/clock"
	"selflab/internal/platform/date"
	"selflab/internal/platform/logger"
)

type InsightService struct {
	clock       clock.Clock
	experiments insightout.ExperimentSource
	logs        insightout.LogSource
	reports     insightout.ReportWriter
	log         *logger.Logger
}

func NewInsightService(
	clock clock.Clock,
	experiments insightout.ExperimentSource,
	logs insightout.LogSource,
	reports insightout.ReportWriter,
	log *logger.Logger,
) *InsightService {
	if log == nil {
		log = logger.Nop()
	}
	return &InsightService{clock: clock, experiments: experiments, logs: logs, reports: reports, log: log}
}

func (s *InsightService) Progress(ctx context.Context, userID, experimentID string) (domain.ExperimentInfo, float64, error) {
	exp, err := s.experiments.Get(ctx, userID, experimentID)
	if err != nil {
		return domain.ExperimentInfo{}, 0, err
	}
	pct, err := domain.Progress(exp.StartDate, exp.EndDate, s.clock.Now())
	return exp, pct, err
}

// Summary reads every log of the user because compliance for an experiment
// may be recorded on logs filed under another one.
func (s *InsightService) Summary(ctx context.Context, userID, experimentID string) (domain.Summary, error) {
	exp, err := s.experiments.Get(ctx, userID, experimentID)
	if err != nil {
		return domain.Summary{}, err
	}
	points, err := s.logs.List(ctx, userID, "")
	if err != nil {
		return domain.Summary{}, err
	}
	pct, err := domain.Progress(exp.StartDate, exp.EndDate, s.clock.Now())
	if err != nil {
		s.log.Warn("experiment has an empty date range", "experiment_id", exp.ID, "error", err)
	}
	return domain.Summarize(exp, pct, points), nil
}

func (s *InsightService) Trend(ctx context.Context, userID string, metric domain.Metric, experimentID string) (domain.MetricTrend, error) {
	if experimentID != "" {
		if _, err := s.experiments.Get(ctx, userID, experimentID); err != nil {
			return domain.MetricTrend{}, err
		}
	}
	points, err := s.logs.List(ctx, userID, experimentID)
	if err != nil {
		return domain.MetricTrend{}, err
	}
	return domain.TrendOf(points, metric), nil
}

func (s *InsightService) UserStats(ctx context.Context, userID string) (domain.UserStats, error) {
	experiments, err := s.experiments.List(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	points, err := s.logs.List(ctx, userID, "")
	if err != nil {
		return domain.UserStats{}, err
	}
	return domain.ComputeUserStats(experiments, points, date.Of(s.clock.Now())), nil
}

// ExportReport writes the summary as a markdown note and returns its path
// together with the rendered file.
func (s *InsightService) ExportReport(ctx context.Context, userID, experimentID string) (string, string, error) {
	summary, err := s.Summary(ctx, userID, experimentID)
	if err != nil {
		return "", "", err
	}
	path, content, err := s.reports.Write(ctx, domain.Report{Summary: summary, GeneratedAt: s.clock.Now()})
	if err != nil {
		return "", "", fmt.Errorf("write report: %w", err)
	}
	s.log.Info("report exported", "user_id", userID, "experiment_id", experimentID, "path", path)
	return path, content, nil
}
