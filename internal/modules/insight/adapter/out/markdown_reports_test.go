package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	insightout "selflab/internal/modules/insight/adapter/out"
	"selflab/internal/modules/insight/domain"
	"selflab/internal/platform/date"
)

func sampleReport() domain.Report {
	exp := domain.ExperimentInfo{
		ID:        "0f3c9a7e-1111-2222-3333-444455556666",
		Name:      "Magnesium Sleep",
		StartDate: date.New(2026, time.March, 1),
		EndDate:   date.New(2026, time.March, 15),
	}
	return domain.Report{Summary: domain.Summarize(exp, 40, nil), GeneratedAt: time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)}
}

func TestWriteCreatesReport(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path, rendered, err := insightout.NewMarkdownReports(dir).Write(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "magnesium-sleep-0f3c9a7e.md" {
		t.Fatalf("unexpected report name %s", path)
	}
	if !strings.HasPrefix(rendered, "---\n") || !strings.Contains(rendered, domain.ManagedInsightsStart) {
		t.Fatalf("unexpected report:\n%s", rendered)
	}
}

func TestWriteRefusesToClobberUnreadableReport(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	report := sampleReport()
	path := filepath.Join(dir, insightout.ReportName(report.Summary.Experiment)+".md")
	broken := "---\nexperiment_id: [unclosed\n---\n\nMy own notes that must survive.\n"
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatalf("seed report: %v", err)
	}

	_, _, err := insightout.NewMarkdownReports(dir).Write(context.Background(), report)
	if !errors.Is(err, insightout.ErrUnreadableReport) {
		t.Fatalf("expected unreadable report error, got %v", err)
	}
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read report: %v", readErr)
	}
	if string(raw) != broken {
		t.Fatalf("report was overwritten:\n%s", raw)
	}
}
