package domain

import (
	"fmt"
	"strings"
	"time"

	"selflab/internal/platform/date"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

func (s Status) Validate() error {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused:
		return nil
	default:
		return fmt.Errorf("unsupported status %q", string(s))
	}
}

type Experiment struct {
	ID          string
	UserID      string
	Name        string
	Hypothesis  string
	Description string
	StartDate   date.Date
	EndDate     date.Date
	Status      Status
	Variables   []string
	Metrics     []string
	Notes       string
	TemplateID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultMetrics are tracked when an experiment names none.
var DefaultMetrics = []string{"mood", "energy", "sleep", "compliance"}

func (e Experiment) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("end date %s is before start date %s", e.EndDate, e.StartDate)
	}
	return e.Status.Validate()
}

func (e Experiment) DurationDays() int {
	return e.StartDate.DaysUntil(e.EndDate)
}

// TemplatePlan is the part of a library template an experiment copies.
type TemplatePlan struct {
	ID           string
	Name         string
	Description  string
	Hypothesis   string
	DurationDays int
	Variables    []string
	Metrics      []string
	Protocol     string
}

// FromTemplate builds a new active experiment that ends DurationDays after
// start.
func FromTemplate(plan TemplatePlan, userID string, start date.Date) Experiment {
	metrics := plan.Metrics
	if len(metrics) == 0 {
		metrics = DefaultMetrics
	}
	return Experiment{
		UserID:      userID,
		Name:        plan.Name,
		Hypothesis:  plan.Hypothesis,
		Description: plan.Description,
		StartDate:   start,
		EndDate:     start.AddDays(plan.DurationDays),
		Status:      StatusActive,
		Variables:   append([]string(nil), plan.Variables...),
		Metrics:     append([]string(nil), metrics...),
		Notes:       "Protocol: " + plan.Protocol,
		TemplateID:  plan.ID,
	}
}
