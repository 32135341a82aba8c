package out

import (
	"context"

	experimentdto "selflab/internal/modules/experiment/dto"
	experimentin "selflab/internal/modules/experiment/port/in"
	"selflab/internal/modules/insight/domain"
	insightout "selflab/internal/modules/insight/port/out"
)

type ExperimentBridge struct {
	experiments experimentin.Usecase
}

func NewExperimentBridge(experiments experimentin.Usecase) insightout.ExperimentSource {
	return ExperimentBridge{experiments: experiments}
}

func (b ExperimentBridge) Get(ctx context.Context, userID, experimentID string) (domain.ExperimentInfo, error) {
	exp, err := b.experiments.Get(ctx, userID, experimentID)
	if err != nil {
		return domain.ExperimentInfo{}, err
	}
	return toInfo(exp), nil
}

func (b ExperimentBridge) List(ctx context.Context, userID string) ([]domain.ExperimentInfo, error) {
	items, err := b.experiments.List(ctx, experimentdto.ListInput{UserID: userID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExperimentInfo, 0, len(items))
	for _, exp := range items {
		out = append(out, toInfo(exp))
	}
	return out, nil
}

func toInfo(exp experimentdto.ExperimentOutput) domain.ExperimentInfo {
	return domain.ExperimentInfo{
		ID:         exp.ID,
		UserID:     exp.UserID,
		Name:       exp.Name,
		Hypothesis: exp.Hypothesis,
		Status:     exp.Status,
		StartDate:  exp.StartDate,
		EndDate:    exp.EndDate,
		Variables:  exp.Variables,
		Metrics:    exp.Metrics,
		TemplateID: exp.TemplateID,
	}
}
