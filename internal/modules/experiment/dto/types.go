package dto

import (
	"time"

	"selflab/internal/platform/date"
)

type CreateInput struct {
	UserID       string
	Name         string
	Hypothesis   string
	Description  string
	StartDate    date.Date
	EndDate      date.Date
	DurationDays int
	Variables    []string
	Metrics      []string
	Notes        string
}

type FromTemplateInput struct {
	UserID     string
	TemplateID string
	StartDate  date.Date
}

type ListInput struct {
	UserID string
	Status string
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	UserID       string
	ExperimentID string
	Name         *string
	Hypothesis   *string
	Description  *string
	StartDate    *date.Date
	EndDate      *date.Date
	Variables    []string
	Metrics      []string
	Notes        *string
}

type StatusInput struct {
	UserID       string
	ExperimentID string
	Status       string
}

type ExperimentOutput struct {
	ID           string
	UserID       string
	Name         string
	Hypothesis   string
	Description  string
	StartDate    date.Date
	EndDate      date.Date
	DurationDays int
	Status       string
	Variables    []string
	Metrics      []string
	Notes        string
	TemplateID   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type DeleteOutput struct {
	Deleted     bool
	LogsRemoved int
}
