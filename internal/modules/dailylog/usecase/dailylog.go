package usecase

import (
	"context"

	"selflab/internal/modules/dailylog/domain"
	"selflab/internal/modules/dailylog/dto"
	dailylogin "selflab/internal/modules/dailylog/port/in"
	"selflab/internal/modules/dailylog/service"
)

type Interactor struct {
	svc *service.DailyLogService
}

func NewInteractor(svc *service.DailyLogService) dailylogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SaveLog(ctx context.Context, input dto.SaveLogInput) (dto.LogOutput, error) {
	saved, created, err := i.svc.Save(ctx, domain.DailyLog{
		UserID:       input.UserID,
		ExperimentID: input.ExperimentID,
		Date:         input.Date,
		Mood:         input.Mood,
		Energy:       input.Energy,
		SleepHours:   input.SleepHours,
		SleepQuality: input.SleepQuality,
		Stress:       input.Stress,
		Weight:       input.Weight,
		Compliance:   input.Compliance,
		Notes:        input.Notes,
	})
	if err != nil {
		return dto.LogOutput{}, err
	}
	out := toOutput(saved)
	out.Created = created
	return out, nil
}

func (i *Interactor) GetLog(ctx context.Context, input dto.GetLogInput) (dto.LogOutput, error) {
	l, err := i.svc.Get(ctx, domain.Key{UserID: input.UserID, ExperimentID: input.ExperimentID, Date: input.Date})
	if err != nil {
		return dto.LogOutput{}, err
	}
	return toOutput(l), nil
}

func (i *Interactor) ListLogs(ctx context.Context, input dto.ListLogsInput) ([]dto.LogOutput, error) {
	logs, err := i.svc.List(ctx, input.UserID, service.Filter{ExperimentID: input.ExperimentID, From: input.From, To: input.To})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LogOutput, 0, len(logs))
	for _, l := range logs {
		out = append(out, toOutput(l))
	}
	return out, nil
}

func (i *Interactor) PurgeExperiment(ctx context.Context, experimentID string) (dto.PurgeOutput, error) {
	removed, err := i.svc.PurgeExperiment(ctx, experimentID)
	if err != nil {
		return dto.PurgeOutput{}, err
	}
	return dto.PurgeOutput{Removed: removed}, nil
}

func toOutput(l domain.DailyLog) dto.LogOutput {
	return dto.LogOutput{
		ID:           l.ID,
		UserID:       l.UserID,
		ExperimentID: l.ExperimentID,
		Date:         l.Date,
		Mood:         l.Mood,
		Energy:       l.Energy,
		SleepHours:   l.SleepHours,
		SleepQuality: l.SleepQuality,
		Stress:       l.Stress,
		Weight:       l.Weight,
		Compliance:   l.Compliance,
		Notes:        l.Notes,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
