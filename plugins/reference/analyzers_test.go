package main

import (
	"context"
	"strings"
	"testing"

	pluginrpc "selflab/internal/modules/plugin/adapter/out/rpc"
)

func flag(v bool) *bool { return &v }

func TestComplianceEffect(t *testing.T) {
	t.Parallel()
	out := complianceEffect([]pluginrpc.DailyLog{
		{Mood: 5, Energy: 4, Compliant: flag(true)},
		{Mood: 3, Energy: 4, Compliant: flag(true)},
		{Mood: 2, Energy: 1, Compliant: flag(false)},
		{Mood: 1, Energy: 1},
	})
	if len(out.Insights) != 4 {
		t.Fatalf("expected four insights, got %+v", out)
	}
	if out.Insights[0].Value != 4 || out.Insights[1].Value != 2 {
		t.Fatalf("unexpected mood means: %+v", out.Insights)
	}
	if !strings.Contains(out.Summary, "mood +2.0") {
		t.Fatalf("unexpected summary %q", out.Summary)
	}

	onlyCompliant := complianceEffect([]pluginrpc.DailyLog{{Mood: 5, Compliant: flag(true)}})
	if len(onlyCompliant.Insights) != 0 || !strings.Contains(onlyCompliant.Summary, "not enough") {
		t.Fatalf("expected not enough data, got %+v", onlyCompliant)
	}
}

func TestBestDay(t *testing.T) {
	t.Parallel()
	out, err := bestDay([]pluginrpc.DailyLog{
		{Date: "2026-03-02", Mood: 2},
		{Date: "2026-03-09", Mood: 3},
		{Date: "2026-03-07", Mood: 5},
		{Date: "2026-03-04", Mood: 0},
	})
	if err != nil {
		t.Fatalf("best day: %v", err)
	}
	if !strings.Contains(out.Summary, "Saturday") || len(out.Insights) != 2 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if _, err := bestDay([]pluginrpc.DailyLog{{Date: "03/02/2026", Mood: 3}}); err == nil {
		t.Fatalf("expected bad date to fail")
	}
}

func TestAnalyzeRejectsUnknownAnalyzer(t *testing.T) {
	t.Parallel()
	if _, err := (&server{}).Analyze(context.Background(), &pluginrpc.AnalyzeRequest{AnalyzerID: "nope"}); err == nil {
		t.Fatalf("expected unknown analyzer error")
	}
}
