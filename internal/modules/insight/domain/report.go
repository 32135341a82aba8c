package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	ReportSchemaVersion  = 1
	ManagedInsightsStart = "<!-- selflab:insights:start -->"
	ManagedInsightsEnd   = "<!-- selflab:insights:end -->"
)

// Report is an experiment summary ready to be written as a markdown note.
type Report struct {
	Summary     Summary
	GeneratedAt time.Time
}

func (r Report) Frontmatter() map[string]any {
	exp := r.Summary.Experiment
	return map[string]any{
		"schema_version":  ReportSchemaVersion,
		"experiment_id":   exp.ID,
		"name":            exp.Name,
		"status":          exp.Status,
		"start_date":      exp.StartDate.String(),
		"end_date":        exp.EndDate.String(),
		"progress":        round1(r.Summary.Progress),
		"compliance_rate": round1(r.Summary.Compliance.Rate),
		"days_logged":     r.Summary.DaysLogged,
		"generated_at":    r.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

// Skeleton is the body a new report starts from. Text outside the managed
// block belongs to the user.
func (r Report) Skeleton() string {
	exp := r.Summary.Experiment
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", exp.Name)
	if exp.Hypothesis != "" {
		fmt.Fprintf(&b, "> %s\n\n", exp.Hypothesis)
	}
	b.WriteString("## Observations\n\n## Conclusion\n")
	return b.String()
}

// Insights renders the generated part of the report.
func (r Report) Insights() string {
	s := r.Summary
	var b strings.Builder
	b.WriteString("## Insights\n\n")
	fmt.Fprintf(&b, "- Progress: %.0f%% (%s to %s)\n", s.Progress, s.Experiment.StartDate, s.Experiment.EndDate)
	fmt.Fprintf(&b, "- Days logged: %d\n", s.DaysLogged)
	if s.Compliance.Counted > 0 {
		fmt.Fprintf(&b, "- Compliance: %.0f%% (%d of %d days)\n", s.Compliance.Rate, s.Compliance.Compliant, s.Compliance.Counted)
	} else {
		b.WriteString("- Compliance: not recorded\n")
	}
	b.WriteString("\n| Metric | Average | Trend |\n|---|---|---|\n")
	for _, t := range s.Trends {
		fmt.Fprintf(&b, "| %s | %.1f | %s |\n", t.Metric, Average(t.Values), t.Trend.Label())
	}
	return strings.TrimRight(b.String(), "\n")
}

// Label renders the trend for people, e.g. "up 12.5%".
func (t TrendResult) Label() string {
	if t.Direction == DirectionStable {
		return string(DirectionStable)
	}
	return fmt.Sprintf("%s %.1f%%", t.Direction, math.Abs(t.Percent))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
