// Command reference is a sample analyzer plugin for selflab.
package main

import (
	"context"
	"fmt"

	pluginrpc "selflab/internal/modules/plugin/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.Metadata, error) {
	return &pluginrpc.Metadata{
		Name:         "reference",
		Version:      "1.0.0",
		Capabilities: []string{"analyze"},
	}, nil
}

func (s *server) ListAnalyzers(_ context.Context, _ *pluginrpc.Empty) (*pluginrpc.ListAnalyzersResponse, error) {
	return &pluginrpc.ListAnalyzersResponse{Analyzers: []pluginrpc.AnalyzerDescriptor{
		{ID: "compliance-effect", Title: "Compliance effect", Description: "Mean mood and energy on compliant versus non-compliant days", TimeoutMS: 2000},
		{ID: "best-day", Title: "Best day", Description: "Weekday with the highest mean mood", TimeoutMS: 2000},
	}}, nil
}

func (s *server) Analyze(_ context.Context, in *pluginrpc.AnalyzeRequest) (*pluginrpc.AnalyzeResponse, error) {
	switch in.AnalyzerID {
	case "compliance-effect":
		return complianceEffect(in.Logs), nil
	case "best-day":
		return bestDay(in.Logs)
	default:
		return nil, fmt.Errorf("unknown analyzer: %s", in.AnalyzerID)
	}
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: pluginrpc.HandshakeConfig,
		Plugins:         pluginrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
