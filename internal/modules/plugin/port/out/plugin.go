package out

import (
	"context"
	"time"

	"selflab/internal/modules/plugin/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	ListAnalyzers(ctx context.Context, manifest domain.Manifest) ([]domain.AnalyzerDescriptor, error)
	Analyze(ctx context.Context, manifest domain.Manifest, req domain.AnalyzeRequest, timeout time.Duration) (domain.AnalyzeResult, error)
}

// DatasetSource assembles the data an analyzer runs over.
type DatasetSource interface {
	Dataset(ctx context.Context, userID, experimentID string) (domain.Dataset, error)
}
