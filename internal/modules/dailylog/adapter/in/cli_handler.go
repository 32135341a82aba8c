package in

import (
	"context"

	"selflab/internal/modules/dailylog/dto"
	dailylogin "selflab/internal/modules/dailylog/port/in"
)

type CLIHandler struct {
	usecase dailylogin.Usecase
}

func NewCLIHandler(usecase dailylogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SaveLog(ctx context.Context, input dto.SaveLogInput) (dto.LogOutput, error) {
	return h.usecase.SaveLog(ctx, input)
}

func (h CLIHandler) GetLog(ctx context.Context, input dto.GetLogInput) (dto.LogOutput, error) {
	return h.usecase.GetLog(ctx, input)
}

func (h CLIHandler) ListLogs(ctx context.Context, input dto.ListLogsInput) ([]dto.LogOutput, error) {
	return h.usecase.ListLogs(ctx, input)
}
