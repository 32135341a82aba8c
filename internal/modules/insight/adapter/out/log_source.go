package out

import (
	"context"

	dailylogdto "selflab/internal/modules/dailylog/dto"
	dailylogin "selflab/internal/modules/dailylog/port/in"
	"selflab/internal/modules/insight/domain"
	insightout "selflab/internal/modules/insight/port/out"
)

type DailyLogBridge struct {
	logs dailylogin.Usecase
}

func NewDailyLogBridge(logs dailylogin.Usecase) insightout.LogSource {
	return DailyLogBridge{logs: logs}
}

func (b DailyLogBridge) List(ctx context.Context, userID, experimentID string) ([]domain.LogPoint, error) {
	items, err := b.logs.ListLogs(ctx, dailylogdto.ListLogsInput{UserID: userID, ExperimentID: experimentID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.LogPoint, 0, len(items))
	for _, l := range items {
		out = append(out, domain.LogPoint{
			ExperimentID: l.ExperimentID,
			Date:         l.Date,
			Mood:         l.Mood,
			Energy:       l.Energy,
			SleepHours:   l.SleepHours,
			SleepQuality: l.SleepQuality,
			Stress:       l.Stress,
			Weight:       l.Weight,
			Compliance:   l.Compliance,
		})
	}
	return out, nil
}
