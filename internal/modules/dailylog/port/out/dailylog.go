package out

import (
	"context"

	"selflab/internal/modules/dailylog/domain"
)

type LogStore interface {
	Save(ctx context.Context, log domain.DailyLog) error
	FindByKey(ctx context.Context, key domain.Key) (domain.DailyLog, error)
	ListByUser(ctx context.Context, userID string) ([]domain.DailyLog, error)
	DeleteByExperiment(ctx context.Context, experimentID string) (int, error)
	StripCompliance(ctx context.Context, experimentID string) (int, error)
}
