// Package rpc is the wire contract between selflab and analyzer plugins:
// a hand-registered gRPC service carried with a JSON codec.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey        = "analyzer"
	serviceName         = "selflab.analyzer.v1.Analyzer"
	jsonCodecName       = "json"
	methodGetMetadata   = "/" + serviceName + "/GetMetadata"
	methodListAnalyzers = "/" + serviceName + "/ListAnalyzers"
	methodAnalyze       = "/" + serviceName + "/Analyze"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SELFLAB_PLUGIN",
	MagicCookieValue: "selflab",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return jsonCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type AnalyzerDescriptor struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TimeoutMS   int32  `json:"timeout_ms"`
}

type ListAnalyzersResponse struct {
	Analyzers []AnalyzerDescriptor `json:"analyzers"`
}

type Experiment struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Hypothesis string   `json:"hypothesis,omitempty"`
	Status     string   `json:"status"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Variables  []string `json:"variables,omitempty"`
	Metrics    []string `json:"metrics,omitempty"`
}

// DailyLog mirrors one log. Compliant is absent when the day has no
// compliance entry for the experiment.
type DailyLog struct {
	Date         string  `json:"date"`
	Mood         int     `json:"mood"`
	Energy       int     `json:"energy"`
	SleepHours   float64 `json:"sleep_hours,omitempty"`
	SleepQuality int     `json:"sleep_quality,omitempty"`
	Stress       int     `json:"stress,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	Compliant    *bool   `json:"compliant,omitempty"`
}

type AnalyzeRequest struct {
	AnalyzerID string     `json:"analyzer_id"`
	Experiment Experiment `json:"experiment"`
	Logs       []DailyLog `json:"logs"`
}

type Insight struct {
	Title  string  `json:"title"`
	Detail string  `json:"detail"`
	Value  float64 `json:"value"`
}

type AnalyzeResponse struct {
	Summary  string    `json:"summary"`
	Insights []Insight `json:"insights"`
}

type AnalyzerServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	ListAnalyzers(ctx context.Context, in *Empty) (*ListAnalyzersResponse, error)
	Analyze(ctx context.Context, in *AnalyzeRequest) (*AnalyzeResponse, error)
}

type AnalyzerClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	ListAnalyzers(ctx context.Context) (*ListAnalyzersResponse, error)
	Analyze(ctx context.Context, in *AnalyzeRequest) (*AnalyzeResponse, error)
}

type analyzerClient struct {
	conn *grpc.ClientConn
}

func NewAnalyzerClient(conn *grpc.ClientConn) AnalyzerClient {
	return &analyzerClient{conn: conn}
}

func (c *analyzerClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *analyzerClient) ListAnalyzers(ctx context.Context) (*ListAnalyzersResponse, error) {
	out := &ListAnalyzersResponse{}
	if err := c.conn.Invoke(ctx, methodListAnalyzers, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *analyzerClient) Analyze(ctx context.Context, in *AnalyzeRequest) (*AnalyzeResponse, error) {
	out := &AnalyzeResponse{}
	if err := c.conn.Invoke(ctx, methodAnalyze, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// unary adapts a typed handler to grpc.MethodDesc, honouring interceptors.
func unary[Req any, Resp any](name, fullMethod string, call func(context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				typed, ok := req.(*Req)
				if !ok {
					return nil, fmt.Errorf("invalid request type %T", req)
				}
				return call(ctx, typed)
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func RegisterAnalyzerServer(server grpc.ServiceRegistrar, impl AnalyzerServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*AnalyzerServer)(nil),
		Methods: []grpc.MethodDesc{
			unary("GetMetadata", methodGetMetadata, impl.GetMetadata),
			unary("ListAnalyzers", methodListAnalyzers, impl.ListAnalyzers),
			unary("Analyze", methodAnalyze, impl.Analyze),
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "selflab/analyzer/v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl AnalyzerServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterAnalyzerServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewAnalyzerClient(conn), nil
}

func PluginMap(impl AnalyzerServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
