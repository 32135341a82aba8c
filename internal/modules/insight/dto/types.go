package dto

import "selflab/internal/platform/date"

type ProgressOutput struct {
	ExperimentID string
	Name         string
	StartDate    date.Date
	EndDate      date.Date
	Percent      float64
}

type TrendInput struct {
	UserID       string
	Metric       string
	ExperimentID string
}

type TrendOutput struct {
	Metric    string
	Direction string
	Percent   float64
	Label     string
	Average   float64
	Values    []float64
}

type SummaryOutput struct {
	ExperimentID  string
	Name          string
	Status        string
	Progress      float64
	Compliance    float64
	CompliantDays int
	CountedDays   int
	DaysLogged    int
	Trends        []TrendOutput
}

type StatsOutput struct {
	TotalExperiments     int
	ActiveExperiments    int
	CompletedExperiments int
	PausedExperiments    int
	TotalLogs            int
	CurrentStreak        int
	AvgMood              float64
	AvgEnergy            float64
	AvgSleep             float64
}

type ReportOutput struct {
	Path     string
	Markdown string
}
