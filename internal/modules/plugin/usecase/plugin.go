package usecase

import (
	"context"

	"selflab/internal/modules/plugin/dto"
	pluginin "selflab/internal/modules/plugin/port/in"
	"selflab/internal/modules/plugin/service"
)

type Interactor struct {
	svc *service.PluginService
}

func NewInteractor(svc *service.PluginService) pluginin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	manifests, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.PluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	reports, err := i.svc.Doctor(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DoctorResult, 0, len(reports))
	for _, r := range reports {
		result := dto.DoctorResult{
			Name:            r.Name,
			ChecksumValid:   r.ChecksumValid,
			BinaryReachable: r.BinaryReachable,
			LifecycleOK:     r.LifecycleOK,
		}
		if r.Err != nil {
			result.Error = r.Err.Error()
		}
		out = append(out, result)
	}
	return out, nil
}

func (i *Interactor) ListAnalyzers(ctx context.Context, pluginName string) ([]dto.AnalyzerInfo, error) {
	analyzers, err := i.svc.ListAnalyzers(ctx, pluginName)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnalyzerInfo, 0, len(analyzers))
	for _, a := range analyzers {
		out = append(out, dto.AnalyzerInfo{ID: a.ID, Title: a.Title, Description: a.Description, TimeoutMS: a.TimeoutMS})
	}
	return out, nil
}

func (i *Interactor) Analyze(ctx context.Context, input dto.AnalyzeInput) (dto.AnalyzeOutput, error) {
	dataset, result, err := i.svc.Analyze(ctx, input.PluginName, input.AnalyzerID, input.UserID, input.ExperimentID)
	if err != nil {
		return dto.AnalyzeOutput{}, err
	}
	insights := make([]dto.InsightOutput, 0, len(result.Insights))
	for _, in := range result.Insights {
		insights = append(insights, dto.InsightOutput{Title: in.Title, Detail: in.Detail, Value: in.Value})
	}
	return dto.AnalyzeOutput{
		PluginName:   input.PluginName,
		AnalyzerID:   input.AnalyzerID,
		ExperimentID: dataset.Experiment.ID,
		LogsSent:     len(dataset.Logs),
		Summary:      result.Summary,
		Insights:     insights,
	}, nil
}
