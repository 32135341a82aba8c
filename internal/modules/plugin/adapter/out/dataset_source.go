package out

import (
	"context"

	dailylogdto "selflab/internal/modules/dailylog/dto"
	dailylogin "selflab/internal/modules/dailylog/port/in"
	experimentin "selflab/internal/modules/experiment/port/in"
	"selflab/internal/modules/plugin/domain"
	pluginout "selflab/internal/modules/plugin/port/out"
)

type ModuleDatasetSource struct {
	experiments experimentin.Usecase
	logs        dailylogin.Usecase
}

func NewModuleDatasetSource(experiments experimentin.Usecase, logs dailylogin.Usecase) pluginout.DatasetSource {
	return ModuleDatasetSource{experiments: experiments, logs: logs}
}

// Dataset collects the experiment and the user's logs that reference it,
// oldest first.
func (s ModuleDatasetSource) Dataset(ctx context.Context, userID, experimentID string) (domain.Dataset, error) {
	exp, err := s.experiments.Get(ctx, userID, experimentID)
	if err != nil {
		return domain.Dataset{}, err
	}
	items, err := s.logs.ListLogs(ctx, dailylogdto.ListLogsInput{UserID: userID})
	if err != nil {
		return domain.Dataset{}, err
	}
	logs := make([]domain.LogData, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		l := items[i]
		done, recorded := l.Compliance[exp.ID]
		if l.ExperimentID != exp.ID && !recorded {
			continue
		}
		entry := domain.LogData{
			Date:         l.Date.String(),
			Mood:         l.Mood,
			Energy:       l.Energy,
			SleepHours:   l.SleepHours,
			SleepQuality: l.SleepQuality,
			Stress:       l.Stress,
			Weight:       l.Weight,
		}
		if recorded {
			entry.Compliant = &done
		}
		logs = append(logs, entry)
	}
	return domain.Dataset{
		Experiment: domain.ExperimentData{
			ID:         exp.ID,
			Name:       exp.Name,
			Hypothesis: exp.Hypothesis,
			Status:     exp.Status,
			StartDate:  exp.StartDate.String(),
			EndDate:    exp.EndDate.String(),
			Variables:  exp.Variables,
			Metrics:    exp.Metrics,
		},
		Logs: logs,
	}, nil
}
