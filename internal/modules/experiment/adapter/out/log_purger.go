package out

import (
	"context"

	dailylogin "selflab/internal/modules/dailylog/port/in"
	experimentout "selflab/internal/modules/experiment/port/out"
)

type DailyLogPurger struct {
	logs dailylogin.Usecase
}

func NewDailyLogPurger(logs dailylogin.Usecase) experimentout.LogPurger {
	return DailyLogPurger{logs: logs}
}

func (p DailyLogPurger) PurgeExperiment(ctx context.Context, experimentID string) (int, error) {
	out, err := p.logs.PurgeExperiment(ctx, experimentID)
	if err != nil {
		return 0, err
	}
	return out.Removed, nil
}
