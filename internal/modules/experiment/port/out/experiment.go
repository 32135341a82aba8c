package out

import (
	"context"

	"selflab/internal/modules/experiment/domain"
)

type ExperimentStore interface {
	Save(ctx context.Context, experiment domain.Experiment) error
	FindByID(ctx context.Context, id string) (domain.Experiment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Experiment, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// LogPurger removes the daily log data that references an experiment.
type LogPurger interface {
	PurgeExperiment(ctx context.Context, experimentID string) (int, error)
}

type TemplateSource interface {
	GetPlan(ctx context.Context, templateID string) (domain.TemplatePlan, error)
}
