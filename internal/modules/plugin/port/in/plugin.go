package in

import (
	"context"

	"selflab/internal/modules/plugin/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	ListAnalyzers(ctx context.Context, pluginName string) ([]dto.AnalyzerInfo, error)
	Analyze(ctx context.Context, input dto.AnalyzeInput) (dto.AnalyzeOutput, error)
}
