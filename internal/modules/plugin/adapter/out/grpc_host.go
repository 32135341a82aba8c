package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	pluginrpc "selflab/internal/modules/plugin/adapter/out/rpc"
	"selflab/internal/modules/plugin/domain"
	pluginout "selflab/internal/modules/plugin/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches each plugin binary per call and talks to it over
// go-plugin's gRPC transport.
type GRPCHost struct {
	pluginLog hclog.Logger
}

// NewGRPCHost builds a host. With verbose set, plugin process output is
// forwarded to stderr.
func NewGRPCHost(verbose bool) pluginout.Host {
	opts := &hclog.LoggerOptions{Name: "plugin", Output: io.Discard, Level: hclog.NoLevel}
	if verbose {
		opts.Output = os.Stderr
		opts.Level = hclog.Debug
	}
	return &GRPCHost{pluginLog: hclog.New(opts)}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) ListAnalyzers(ctx context.Context, manifest domain.Manifest) ([]domain.AnalyzerDescriptor, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.ListAnalyzers(callCtx)
	if err != nil {
		return nil, fmt.Errorf("list analyzers: %w", err)
	}
	out := make([]domain.AnalyzerDescriptor, 0, len(response.Analyzers))
	for _, a := range response.Analyzers {
		out = append(out, domain.AnalyzerDescriptor{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			TimeoutMS:   int(a.TimeoutMS),
		})
	}
	return out, nil
}

func (h *GRPCHost) Analyze(ctx context.Context, manifest domain.Manifest, req domain.AnalyzeRequest, timeout time.Duration) (domain.AnalyzeResult, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.AnalyzeResult{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, timeout)
	defer cancel()
	response, err := client.Analyze(callCtx, toWire(req))
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return domain.AnalyzeResult{}, fmt.Errorf("%w: analyzer %s", domain.ErrPluginTimeout, req.AnalyzerID)
		}
		return domain.AnalyzeResult{}, fmt.Errorf("analyze: %w", err)
	}
	insights := make([]domain.Insight, 0, len(response.Insights))
	for _, in := range response.Insights {
		insights = append(insights, domain.Insight{Title: in.Title, Detail: in.Detail, Value: in.Value})
	}
	return domain.AnalyzeResult{Summary: response.Summary, Insights: insights}, nil
}

func toWire(req domain.AnalyzeRequest) *pluginrpc.AnalyzeRequest {
	exp := req.Dataset.Experiment
	logs := make([]pluginrpc.DailyLog, 0, len(req.Dataset.Logs))
	for _, l := range req.Dataset.Logs {
		logs = append(logs, pluginrpc.DailyLog{
			Date:         l.Date,
			Mood:         l.Mood,
			Energy:       l.Energy,
			SleepHours:   l.SleepHours,
			SleepQuality: l.SleepQuality,
			Stress:       l.Stress,
			Weight:       l.Weight,
			Compliant:    l.Compliant,
		})
	}
	return &pluginrpc.AnalyzeRequest{
		AnalyzerID: req.AnalyzerID,
		Experiment: pluginrpc.Experiment{
			ID:         exp.ID,
			Name:       exp.Name,
			Hypothesis: exp.Hypothesis,
			Status:     exp.Status,
			StartDate:  exp.StartDate,
			EndDate:    exp.EndDate,
			Variables:  exp.Variables,
			Metrics:    exp.Metrics,
		},
		Logs: logs,
	}
}

func (h *GRPCHost) connect(manifest domain.Manifest) (pluginrpc.AnalyzerClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  pluginrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          pluginrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.pluginLog.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(pluginrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(pluginrpc.AnalyzerClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

// callContext keeps a caller deadline and otherwise applies timeout.
func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
