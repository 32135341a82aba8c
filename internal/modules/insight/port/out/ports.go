package out

import (
	"context"

	"selflab/internal/modules/insight/domain"
)

type ExperimentSource interface {
	Get(ctx context.Context, userID, experimentID string) (domain.ExperimentInfo, error)
	List(ctx context.Context, userID string) ([]domain.ExperimentInfo, error)
}

// LogSource lists a user's daily logs. An empty experimentID means all.
type LogSource interface {
	List(ctx context.Context, userID, experimentID string) ([]domain.LogPoint, error)
}

// ReportWriter persists a report and returns where it went along with the
// full file content.
type ReportWriter interface {
	Write(ctx context.Context, report domain.Report) (path string, content string, err error)
}
