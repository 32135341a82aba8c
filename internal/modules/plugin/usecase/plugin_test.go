package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	dailylogout "selflab/internal/modules/dailylog/adapter/out"
	dailylogdto "selflab/internal/modules/dailylog/dto"
	dailylogservice "selflab/internal/modules/dailylog/service"
	dailylogusecase "selflab/internal/modules/dailylog/usecase"
	experimentout "selflab/internal/modules/experiment/adapter/out"
	experimentdto "selflab/internal/modules/experiment/dto"
	experimentservice "selflab/internal/modules/experiment/service"
	experimentusecase "selflab/internal/modules/experiment/usecase"
	pluginout "selflab/internal/modules/plugin/adapter/out"
	"selflab/internal/modules/plugin/domain"
	"selflab/internal/modules/plugin/dto"
	"selflab/internal/modules/plugin/service"
	"selflab/internal/modules/plugin/usecase"
	"selflab/internal/platform/date"
	"selflab/internal/platform/kv"
)

type fakeManifestStore struct {
	manifests []domain.Manifest
}

func (s fakeManifestStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type recordingHost struct {
	sent *domain.AnalyzeRequest
}

func (recordingHost) CheckLifecycle(context.Context, domain.Manifest) error { return nil }
func (recordingHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: "p1", Version: "1"}, nil
}
func (recordingHost) ListAnalyzers(context.Context, domain.Manifest) ([]domain.AnalyzerDescriptor, error) {
	return []domain.AnalyzerDescriptor{
		{ID: "compliance-effect", Title: "Compliance effect", TimeoutMS: 2000},
		{ID: "best-day", Title: "Best day"},
	}, nil
}
func (h recordingHost) Analyze(_ context.Context, _ domain.Manifest, req domain.AnalyzeRequest, _ time.Duration) (domain.AnalyzeResult, error) {
	*h.sent = req
	return domain.AnalyzeResult{
		Summary:  fmt.Sprintf("%d logs", len(req.Dataset.Logs)),
		Insights: []domain.Insight{{Title: "Mood when compliant", Value: 4}},
	}, nil
}

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

type seqID struct {
	prefix string
	n      int
}

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

func TestUsecaseAnalyzesExperimentLogs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	manager := kv.NewManager(kv.NewMemoryMedium(0))
	clk := &stepClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}

	logs := dailylogusecase.NewInteractor(dailylogservice.NewDailyLogService(clk, &seqID{prefix: "log"}, manager, dailylogout.NewKVLogStore(manager, clk, nil), nil))
	experiments := experimentusecase.NewInteractor(experimentservice.NewExperimentService(
		clk, &seqID{prefix: "exp"}, manager,
		experimentout.NewKVExperimentStore(manager, clk, nil),
		experimentout.NewDailyLogPurger(logs), nil, nil,
	))

	start := date.New(2026, time.March, 1)
	exp, err := experiments.Create(ctx, experimentdto.CreateInput{UserID: "u1", Name: "Cold showers", StartDate: start, DurationDays: 21})
	if err != nil {
		t.Fatalf("create experiment: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := logs.SaveLog(ctx, dailylogdto.SaveLogInput{
			UserID: "u1", ExperimentID: exp.ID, Date: start.AddDays(i), Mood: 3 + i%2, Energy: 3,
			Compliance: map[string]bool{exp.ID: i != 1},
		}); err != nil {
			t.Fatalf("save log: %v", err)
		}
	}
	if _, err := logs.SaveLog(ctx, dailylogdto.SaveLogInput{UserID: "u1", Date: start, Mood: 2, Energy: 2}); err != nil {
		t.Fatalf("save unrelated log: %v", err)
	}

	var sent domain.AnalyzeRequest
	manifest := manifestWithBinary(t)
	svc := service.NewPluginService(
		fakeManifestStore{manifests: []domain.Manifest{manifest}},
		recordingHost{sent: &sent},
		pluginout.NewModuleDatasetSource(experiments, logs),
		time.Second,
		nil,
	)
	uc := usecase.NewInteractor(svc)

	list, err := uc.List(ctx)
	if err != nil || len(list) != 1 || list[0].Name != "p1" {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}
	docs, err := uc.Doctor(ctx)
	if err != nil || len(docs) != 1 || !docs[0].LifecycleOK {
		t.Fatalf("unexpected doctor result: %+v err=%v", docs, err)
	}
	analyzers, err := uc.ListAnalyzers(ctx, "p1")
	if err != nil || len(analyzers) != 2 {
		t.Fatalf("unexpected analyzers: %+v err=%v", analyzers, err)
	}

	out, err := uc.Analyze(ctx, dto.AnalyzeInput{PluginName: "p1", AnalyzerID: "compliance-effect", UserID: "u1", ExperimentID: exp.ID})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if out.LogsSent != 3 || out.Summary != "3 logs" || len(out.Insights) != 1 {
		t.Fatalf("unexpected analyze output: %+v", out)
	}
	if sent.Dataset.Logs[0].Date != "2026-03-01" || sent.Dataset.Logs[2].Date != "2026-03-03" {
		t.Fatalf("logs should be sent oldest first: %+v", sent.Dataset.Logs)
	}
	if c := sent.Dataset.Logs[1].Compliant; c == nil || *c {
		t.Fatalf("expected the second day to be recorded as non-compliant, got %v", c)
	}
	if _, err := uc.Analyze(ctx, dto.AnalyzeInput{PluginName: "p1", AnalyzerID: "best-day", UserID: "u2", ExperimentID: exp.ID}); err == nil {
		t.Fatalf("expected other users to be refused")
	}
}

func manifestWithBinary(t *testing.T) domain.Manifest {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "plugin-bin")
	if err := os.WriteFile(binPath, []byte("binary"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256([]byte("binary"))
	return domain.Manifest{
		Name:         "p1",
		Version:      "1",
		Binary:       binPath,
		SHA256:       hex.EncodeToString(hash[:]),
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilityAnalyze},
	}
}
