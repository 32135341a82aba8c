package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pluginout "selflab/internal/modules/plugin/adapter/out"
	"selflab/internal/modules/plugin/domain"
	"selflab/internal/modules/plugin/service"
	apperrors "selflab/internal/platform/errors"
)

type fakeStore struct {
	manifests []domain.Manifest
}

func (s fakeStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	analyzers []domain.AnalyzerDescriptor
	got       *domain.AnalyzeRequest
	timeout   *time.Duration
	err       error
}

func (fakeHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }
func (fakeHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: "fake", Version: "1"}, nil
}
func (h fakeHost) ListAnalyzers(context.Context, domain.Manifest) ([]domain.AnalyzerDescriptor, error) {
	return h.analyzers, nil
}
func (h fakeHost) Analyze(_ context.Context, _ domain.Manifest, req domain.AnalyzeRequest, timeout time.Duration) (domain.AnalyzeResult, error) {
	if h.err != nil {
		return domain.AnalyzeResult{}, h.err
	}
	if h.got != nil {
		*h.got = req
	}
	if h.timeout != nil {
		*h.timeout = timeout
	}
	return domain.AnalyzeResult{Summary: "ok", Insights: []domain.Insight{{Title: "t", Value: 1}}}, nil
}

type fakeData struct {
	dataset domain.Dataset
	err     error
}

func (f fakeData) Dataset(context.Context, string, string) (domain.Dataset, error) {
	return f.dataset, f.err
}

var dataset = domain.Dataset{
	Experiment: domain.ExperimentData{ID: "exp-1", Name: "Cold showers"},
	Logs:       []domain.LogData{{Date: "2026-03-01", Mood: 4}, {Date: "2026-03-02", Mood: 3}},
}

func manifestWithBinary(t *testing.T, enabled bool, capabilities []domain.Capability) domain.Manifest {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "plugin-bin")
	if err := os.WriteFile(binPath, []byte("binary"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256([]byte("binary"))
	return domain.Manifest{
		Name:         "demo",
		Version:      "1.0.0",
		Binary:       binPath,
		SHA256:       hex.EncodeToString(hash[:]),
		Enabled:      enabled,
		Capabilities: capabilities,
	}
}

var analyze = []domain.Capability{domain.CapabilityAnalyze}

func TestAnalyzeSendsDatasetWithAnalyzerTimeout(t *testing.T) {
	t.Parallel()
	manifest := manifestWithBinary(t, true, analyze)
	var got domain.AnalyzeRequest
	var timeout time.Duration
	host := fakeHost{analyzers: []domain.AnalyzerDescriptor{{ID: "best-day", TimeoutMS: 1500}}, got: &got, timeout: &timeout}
	svc := service.NewPluginService(fakeStore{manifests: []domain.Manifest{manifest}}, host, fakeData{dataset: dataset}, time.Second, nil)

	sent, result, err := svc.Analyze(context.Background(), "demo", "best-day", "u1", "exp-1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Summary != "ok" || len(result.Insights) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got.AnalyzerID != "best-day" || len(got.Dataset.Logs) != 2 || sent.Experiment.ID != "exp-1" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if timeout != 1500*time.Millisecond {
		t.Fatalf("expected analyzer timeout, got %s", timeout)
	}
}

func TestAnalyzeRejections(t *testing.T) {
	t.Parallel()
	enabled := manifestWithBinary(t, true, analyze)
	disabled := manifestWithBinary(t, false, analyze)
	disabled.Name = "off"
	host := fakeHost{analyzers: []domain.AnalyzerDescriptor{{ID: "best-day"}}}
	store := fakeStore{manifests: []domain.Manifest{enabled, disabled}}

	cases := []struct {
		name   string
		plugin string
		id     string
		data   fakeData
		want   error
	}{
		{name: "disabled", plugin: "off", id: "best-day", data: fakeData{dataset: dataset}, want: domain.ErrPluginDisabled},
		{name: "unknown plugin", plugin: "ghost", id: "best-day", data: fakeData{dataset: dataset}, want: domain.ErrPluginNotFound},
		{name: "unknown analyzer", plugin: "demo", id: "mystery", data: fakeData{dataset: dataset}, want: domain.ErrAnalyzerNotFound},
		{name: "blank analyzer", plugin: "demo", id: " ", data: fakeData{dataset: dataset}, want: apperrors.ErrInvalidInput},
		{name: "foreign experiment", plugin: "demo", id: "best-day", data: fakeData{err: apperrors.ErrNotFound}, want: apperrors.ErrNotFound},
	}
	for _, tc := range cases {
		svc := service.NewPluginService(store, host, tc.data, time.Second, nil)
		if _, _, err := svc.Analyze(context.Background(), tc.plugin, tc.id, "u1", "exp-1"); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAnalyzeSurfacesHostTimeout(t *testing.T) {
	t.Parallel()
	manifest := manifestWithBinary(t, true, analyze)
	host := fakeHost{analyzers: []domain.AnalyzerDescriptor{{ID: "best-day"}}, err: domain.ErrPluginTimeout}
	svc := service.NewPluginService(fakeStore{manifests: []domain.Manifest{manifest}}, host, fakeData{dataset: dataset}, time.Second, nil)
	if _, _, err := svc.Analyze(context.Background(), "demo", "best-day", "u1", "exp-1"); !errors.Is(err, domain.ErrPluginTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestListRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	manifest := manifestWithBinary(t, true, analyze)
	svc := service.NewPluginService(fakeStore{manifests: []domain.Manifest{manifest, manifest}}, fakeHost{}, fakeData{}, 0, nil)
	if _, err := svc.List(context.Background()); err == nil || !strings.Contains(err.Error(), "duplicate plugin name") {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestDoctorDetectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	pluginsDir := t.TempDir()
	binPath := filepath.Join(pluginsDir, "dummy-plugin")
	if err := os.WriteFile(binPath, []byte("not-a-real-plugin"), 0o755); err != nil {
		t.Fatalf("write plugin binary: %v", err)
	}
	manifests := []domain.Manifest{
		{Name: "demo", Version: "1.0.0", Binary: binPath, SHA256: strings.Repeat("0", 64), Enabled: true, Capabilities: analyze},
		{Name: "gone", Version: "1.0.0", Binary: "missing-plugin", SHA256: strings.Repeat("0", 64), Enabled: true, Capabilities: analyze},
	}
	raw, _ := json.Marshal(manifests)
	if err := os.WriteFile(filepath.Join(pluginsDir, "plugins.json"), raw, 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}

	svc := service.NewPluginService(pluginout.NewFileManifestStore(pluginsDir), nil, fakeData{}, 0, nil)
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two results, got %d", len(results))
	}
	if !results[0].BinaryReachable || results[0].ChecksumValid || !errors.Is(results[0].Err, domain.ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %+v", results[0])
	}
	if results[1].BinaryReachable || results[1].Err == nil {
		t.Fatalf("expected unreachable binary, got %+v", results[1])
	}
}
