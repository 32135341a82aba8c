package in

import (
	"context"

	"selflab/internal/modules/plugin/dto"
	pluginin "selflab/internal/modules/plugin/port/in"
)

type CLIHandler struct {
	usecase pluginin.Usecase
}

func NewCLIHandler(usecase pluginin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) ListAnalyzers(ctx context.Context, pluginName string) ([]dto.AnalyzerInfo, error) {
	return h.usecase.ListAnalyzers(ctx, pluginName)
}

func (h CLIHandler) Analyze(ctx context.Context, input dto.AnalyzeInput) (dto.AnalyzeOutput, error) {
	return h.usecase.Analyze(ctx, input)
}
