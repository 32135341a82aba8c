package domain

import "selflab/internal/platform/date"

// UserStats is the dashboard read-model for one user.
type UserStats struct {
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

// ComputeUserStats averages mood, energy and sleep over the StatsWindow most
// recent logged days.
func ComputeUserStats(experiments []ExperimentInfo, points []LogPoint, today date.Date) UserStats {
	stats := UserStats{TotalExperiments: len(experiments), TotalLogs: len(points)}
	for _, exp := range experiments {
		switch exp.Status {
		case "active":
			stats.ActiveExperiments++
		case "completed":
			stats.CompletedExperiments++
		case "paused":
			stats.PausedExperiments++
		}
	}

	days := DistinctDates(points)
	stats.CurrentStreak = Streak(days, today)
	if len(days) > StatsWindow {
		days = days[:StatsWindow]
	}
	recent := map[string]bool{}
	for _, d := range days {
		recent[d.String()] = true
	}
	window := make([]LogPoint, 0, len(points))
	for _, p := range points {
		if recent[p.Date.String()] {
			window = append(window, p)
		}
	}
	stats.AvgMood = Average(Series(window, MetricMood))
	stats.AvgEnergy = Average(Series(window, MetricEnergy))
	stats.AvgSleep = Average(Series(window, MetricSleep))
	return stats
}

type MetricTrend struct {
	Metric Metric
	Values []float64
	Trend  TrendResult
}

// TrendOf runs Trend over the metric's daily values.
func TrendOf(points []LogPoint, metric Metric) MetricTrend {
	values := DailySeries(points, metric)
	return MetricTrend{Metric: metric, Values: values, Trend: Trend(values)}
}

// Summary is everything known about one experiment's run so far.
type Summary struct {
	Experiment ExperimentInfo
	Progress   float64
	Compliance Compliance
	DaysLogged int
	Trends     []MetricTrend
}

// Summarize builds the summary from the experiment's referencing logs.
func Summarize(exp ExperimentInfo, progress float64, points []LogPoint) Summary {
	own := make([]LogPoint, 0, len(points))
	for _, p := range points {
		if p.References(exp.ID) {
			own = append(own, p)
		}
	}
	return Summary{
		Experiment: exp,
		Progress:   progress,
		Compliance: ComplianceRate(own, exp.ID),
		DaysLogged: len(DistinctDates(own)),
		Trends: []MetricTrend{
			TrendOf(own, MetricMood),
			TrendOf(own, MetricEnergy),
			TrendOf(own, MetricSleep),
		},
	}
}
