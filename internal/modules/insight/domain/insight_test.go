package domain_test

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"selflab/internal/modules/insight/domain"
	"selflab/internal/platform/date"
	apperrors "selflab/internal/platform/errors"
)

func TestProgress(t *testing.T) {
	t.Parallel()
	start := date.New(2026, time.March, 1)
	end := start.AddDays(10)

	cases := []struct {
		name string
		now  time.Time
		want float64
	}{
		{name: "before start", now: time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC), want: 0},
		{name: "start day", now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), want: 0},
		{name: "partial day rounds up", now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), want: 10},
		{name: "midway", now: time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC), want: 50},
		{name: "after end clamps", now: time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), want: 100},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := domain.Progress(start, end, tc.now)
			if err != nil {
				t.Fatalf("progress: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %.1f, got %.1f", tc.want, got)
			}
		})
	}
}

func TestProgressNeverDecreases(t *testing.T) {
	t.Parallel()
	start := date.New(2026, time.March, 1)
	end := start.AddDays(21)
	last := -1.0
	for now := start.Time().Add(-48 * time.Hour); now.Before(end.Time().Add(48 * time.Hour)); now = now.Add(5 * time.Hour) {
		got, err := domain.Progress(start, end, now)
		if err != nil {
			t.Fatalf("progress at %s: %v", now, err)
		}
		if got < last || got < 0 || got > 100 {
			t.Fatalf("progress at %s went from %.2f to %.2f", now, last, got)
		}
		last = got
	}
	if last != 100 {
		t.Fatalf("expected progress to reach 100 after the end, got %.2f", last)
	}
}

func TestProgressRejectsEmptyRange(t *testing.T) {
	t.Parallel()
	day := date.New(2026, time.March, 1)
	for _, end := range []date.Date{day, day.AddDays(-2)} {
		got, err := domain.Progress(day, end, time.Now())
		if got != 0 || !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Fatalf("expected 0 and invalid range for end %s, got %.1f %v", end, got, err)
		}
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestTrend(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		values []float64
		dir    domain.Direction
		pct    float64
	}{
		{name: "too short", values: repeat(3, 13), dir: domain.DirectionStable, pct: 0},
		{name: "flat", values: repeat(3, 14), dir: domain.DirectionStable, pct: 0},
		{name: "up", values: append(repeat(2, 7), repeat(3, 7)...), dir: domain.DirectionUp, pct: 50},
		{name: "down", values: append(repeat(4, 7), repeat(3, 7)...), dir: domain.DirectionDown, pct: -25},
		{name: "small change is stable", values: append(repeat(4, 7), repeat(4.1, 7)...), dir: domain.DirectionStable, pct: 2.5},
		{name: "only last fourteen count", values: append(repeat(100, 5), append(repeat(2, 7), repeat(3, 7)...)...), dir: domain.DirectionUp, pct: 50},
		{name: "zero baseline", values: append(repeat(0, 7), repeat(1, 7)...), dir: domain.DirectionUp, pct: 100},
		{name: "all zero", values: repeat(0, 14), dir: domain.DirectionStable, pct: 0},
		{name: "eighty against a hundred", values: append(repeat(100, 7), repeat(80, 7)...), dir: domain.DirectionDown, pct: -20},
		{name: "one percent is stable", values: append(repeat(100, 7), repeat(101, 7)...), dir: domain.DirectionStable, pct: 1},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := domain.Trend(tc.values)
			if got.Direction != tc.dir || math.Abs(got.Percent-tc.pct) > 1e-9 {
				t.Fatalf("expected %s %.2f, got %s %.2f", tc.dir, tc.pct, got.Direction, got.Percent)
			}
		})
	}
}

func TestComplianceRateCountsOnlyRecordedDays(t *testing.T) {
	t.Parallel()
	points := []domain.LogPoint{
		{Compliance: map[string]bool{"e1": true}},
		{Compliance: map[string]bool{"e1": false}},
		{Compliance: map[string]bool{"e1": true, "e2": false}},
		{Compliance: map[string]bool{"e2": true}},
		{},
	}
	got := domain.ComplianceRate(points, "e1")
	if got.Counted != 3 || got.Compliant != 2 || math.Abs(got.Rate-200.0/3) > 1e-9 {
		t.Fatalf("unexpected compliance: %+v", got)
	}
	if none := domain.ComplianceRate(points, "e3"); none.Rate != 0 || none.Counted != 0 {
		t.Fatalf("expected zero compliance for unknown experiment, got %+v", none)
	}
}

func TestComplianceRateOverTenLogs(t *testing.T) {
	t.Parallel()
	day := date.New(2026, time.March, 1)
	entries := []bool{true, true, false, true, false, true}
	points := make([]domain.LogPoint, 0, 10)
	for i := 0; i < 10; i++ {
		p := domain.LogPoint{Date: day.AddDays(i), Mood: 3, Energy: 3}
		if i < len(entries) {
			p.Compliance = map[string]bool{"e1": entries[i]}
		}
		points = append(points, p)
	}
	got := domain.ComplianceRate(points, "e1")
	if got.Counted != 6 || got.Compliant != 4 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if rounded := math.Round(got.Rate*100) / 100; rounded != 66.67 {
		t.Fatalf("expected 66.67, got %.4f", got.Rate)
	}
}

func TestStreak(t *testing.T) {
	t.Parallel()
	today := date.New(2026, time.March, 10)
	cases := []struct {
		name  string
		dates []date.Date
		want  int
	}{
		{name: "empty", want: 0},
		{name: "today missing", dates: []date.Date{today.AddDays(-1), today.AddDays(-2)}, want: 0},
		{name: "today only", dates: []date.Date{today}, want: 1},
		{name: "gap stops streak", dates: []date.Date{today, today.AddDays(-1), today.AddDays(-3)}, want: 2},
		{name: "older log after a gap is ignored", dates: []date.Date{today, today.AddDays(-1), today.AddDays(-2), today.AddDays(-6)}, want: 3},
		{name: "duplicates count once", dates: []date.Date{today, today, today.AddDays(-1), today.AddDays(-2)}, want: 3},
	}
	for _, tc := range cases {
		if got := domain.Streak(tc.dates, today); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestComputeUserStats(t *testing.T) {
	t.Parallel()
	today := date.New(2026, time.March, 20)
	points := make([]domain.LogPoint, 0, 10)
	for i := 0; i < 10; i++ {
		mood := 5
		if i >= 7 {
			mood = 1
		}
		points = append(points, domain.LogPoint{Date: today.AddDays(-i), Mood: mood, Energy: 4, SleepHours: 8})
	}
	experiments := []domain.ExperimentInfo{{Status: "active"}, {Status: "active"}, {Status: "completed"}, {Status: "paused"}}

	stats := domain.ComputeUserStats(experiments, points, today)
	if stats.TotalExperiments != 4 || stats.ActiveExperiments != 2 || stats.CompletedExperiments != 1 || stats.PausedExperiments != 1 {
		t.Fatalf("unexpected experiment counts: %+v", stats)
	}
	if stats.TotalLogs != 10 || stats.CurrentStreak != 10 {
		t.Fatalf("unexpected log counts: %+v", stats)
	}
	if stats.AvgMood != 5 || stats.AvgEnergy != 4 || stats.AvgSleep != 8 {
		t.Fatalf("averages should cover the last seven days only: %+v", stats)
	}
}

func TestSeriesSkipsUnsetReadings(t *testing.T) {
	t.Parallel()
	day := date.New(2026, time.March, 1)
	points := []domain.LogPoint{
		{Date: day.AddDays(2), Mood: 3, Stress: 6},
		{Date: day, Mood: 1},
		{Date: day.AddDays(1), Mood: 2, Stress: 4},
	}
	mood := domain.Series(points, domain.MetricMood)
	if len(mood) != 3 || mood[0] != 1 || mood[2] != 3 {
		t.Fatalf("expected chronological mood series, got %v", mood)
	}
	if stress := domain.Series(points, domain.MetricStress); len(stress) != 2 {
		t.Fatalf("expected unset stress to be skipped, got %v", stress)
	}
	if _, err := domain.ParseMetric("happiness"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected unknown metric to be rejected, got %v", err)
	}
}

func TestTrendOfUsesOneValuePerDay(t *testing.T) {
	t.Parallel()
	start := date.New(2026, time.March, 1)
	points := make([]domain.LogPoint, 0, 28)
	for i := 0; i < 14; i++ {
		mood := 2
		if i >= 7 {
			mood = 4
		}
		for _, expID := range []string{"a", "b"} {
			points = append(points, domain.LogPoint{ExperimentID: expID, Date: start.AddDays(i), Mood: mood, Energy: 3})
		}
	}

	got := domain.TrendOf(points, domain.MetricMood)
	if len(got.Values) != 14 {
		t.Fatalf("expected fourteen daily values, got %d", len(got.Values))
	}
	if got.Trend.Direction != domain.DirectionUp || got.Trend.Percent != 100 {
		t.Fatalf("expected up 100%%, got %+v", got.Trend)
	}
}

func TestDailySeriesAveragesEachDay(t *testing.T) {
	t.Parallel()
	day := date.New(2026, time.March, 1)
	points := []domain.LogPoint{
		{Date: day.AddDays(1), SleepHours: 6},
		{Date: day, SleepHours: 7},
		{Date: day.AddDays(1), SleepHours: 8},
		{Date: day.AddDays(1)},
		{Date: day.AddDays(2)},
	}
	got := domain.DailySeries(points, domain.MetricSleep)
	if len(got) != 2 || got[0] != 7 || got[1] != 7 {
		t.Fatalf("expected [7 7], got %v", got)
	}
}

func TestReportInsights(t *testing.T) {
	t.Parallel()
	exp := domain.ExperimentInfo{ID: "e1", Name: "Cold showers", Hypothesis: "More energy", StartDate: date.New(2026, time.March, 1), EndDate: date.New(2026, time.March, 22)}
	points := []domain.LogPoint{
		{ExperimentID: "e1", Date: exp.StartDate, Mood: 4, Energy: 4, Compliance: map[string]bool{"e1": true}},
		{ExperimentID: "e1", Date: exp.StartDate.AddDays(1), Mood: 3, Energy: 5, Compliance: map[string]bool{"e1": false}},
		{ExperimentID: "other", Date: exp.StartDate, Mood: 1, Energy: 1},
	}
	report := domain.Report{Summary: domain.Summarize(exp, 50, points), GeneratedAt: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)}
	if report.Summary.DaysLogged != 2 {
		t.Fatalf("expected two logged days, got %d", report.Summary.DaysLogged)
	}
	text := report.Insights()
	for _, want := range []string{"Progress: 50%", "Compliance: 50% (1 of 2 days)", "| mood | 3.5 | stable |"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in insights:\n%s", want, text)
		}
	}
	if meta := report.Frontmatter(); meta["experiment_id"] != "e1" || meta["days_logged"] != 2 {
		t.Fatalf("unexpected frontmatter: %v", meta)
	}
	if !strings.Contains(report.Skeleton(), "> More energy") {
		t.Fatalf("skeleton should quote the hypothesis")
	}
}
