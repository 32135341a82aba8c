package dto

import (
	"time"

	"selflab/internal/platform/date"
)

type SaveLogInput struct {
	UserID       string
	ExperimentID string
	Date         date.Date
	Mood         int
	Energy       int
	SleepHours   float64
	SleepQuality int
	Stress       int
	Weight       float64
	Compliance   map[string]bool
	Notes        string
}

type GetLogInput struct {
	UserID       string
	ExperimentID string
	Date         date.Date
}

type ListLogsInput struct {
	UserID       string
	ExperimentID string
	From         date.Date
	To           date.Date
}

type LogOutput struct {
	ID           string
	UserID       string
	ExperimentID string
	Date         date.Date
	Mood         int
	Energy       int
	SleepHours   float64
	SleepQuality int
	Stress       int
	Weight       float64
	Compliance   map[string]bool
	Notes        string
	Created      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PurgeOutput struct {
	Removed int
}
