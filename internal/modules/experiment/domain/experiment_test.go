package domain_test

import (
	"testing"
	"time"

	"selflab/internal/modules/experiment/domain"
	"selflab/internal/platform/date"
)

func TestExperimentValidate(t *testing.T) {
	t.Parallel()
	start := date.New(2026, time.March, 1)
	base := domain.Experiment{
		ID:        "exp-1",
		UserID:    "u1",
		Name:      "Cold showers",
		StartDate: start,
		EndDate:   start.AddDays(21),
		Status:    domain.StatusActive,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid experiment rejected: %v", err)
	}
	if base.DurationDays() != 21 {
		t.Fatalf("expected 21 days, got %d", base.DurationDays())
	}
	sameDay := base
	sameDay.EndDate = start
	if err := sameDay.Validate(); err != nil {
		t.Fatalf("single-day range should be allowed: %v", err)
	}
	reversed := base
	reversed.EndDate = start.AddDays(-1)
	if err := reversed.Validate(); err == nil {
		t.Fatalf("end before start should fail")
	}
	badStatus := base
	badStatus.Status = "archived"
	if err := badStatus.Validate(); err == nil {
		t.Fatalf("unknown status should fail")
	}
}

func TestFromTemplate(t *testing.T) {
	t.Parallel()
	start := date.New(2026, time.March, 1)
	exp := domain.FromTemplate(domain.TemplatePlan{
		ID:           "template-3",
		Name:         "Morning Light Exposure",
		DurationDays: 14,
		Protocol:     "Go outside.",
	}, "u1", start)
	if !exp.EndDate.Equal(date.New(2026, time.March, 15)) {
		t.Fatalf("unexpected end date %s", exp.EndDate)
	}
	if exp.Notes != "Protocol: Go outside." || exp.TemplateID != "template-3" || exp.Status != domain.StatusActive {
		t.Fatalf("unexpected experiment %+v", exp)
	}
	if len(exp.Metrics) != len(domain.DefaultMetrics) {
		t.Fatalf("expected default metrics, got %v", exp.Metrics)
	}
}
