// Package domain holds the derived read-models computed from experiments and
// daily logs. Every function here is pure.
package domain

import (
	"fmt"
	"math"
	"sort"
	"time"

	"selflab/internal/platform/date"
	apperrors "selflab/internal/platform/errors"
)

const (
	// TrendWindow is how many of the most recent values a trend looks at.
	TrendWindow = 14
	// StableThreshold is the percent change below which a trend is stable.
	StableThreshold = 5.0
	// StatsWindow is how many logged days feed the dashboard averages.
	StatsWindow = 7
)

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

type Metric string

const (
	MetricMood         Metric = "mood"
	MetricEnergy       Metric = "energy"
	MetricSleep        Metric = "sleep"
	MetricSleepQuality Metric = "sleep_quality"
	MetricStress       Metric = "stress"
	MetricWeight       Metric = "weight"
)

var Metrics = []Metric{MetricMood, MetricEnergy, MetricSleep, MetricSleepQuality, MetricStress, MetricWeight}

func ParseMetric(raw string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown metric %q", apperrors.ErrInvalidInput, raw)
}

// ExperimentInfo is the slice of an experiment the analytics need.
type ExperimentInfo struct {
	ID         string
	UserID     string
	Name       string
	Hypothesis string
	Status     string
	StartDate  date.Date
	EndDate    date.Date
	Variables  []string
	Metrics    []string
	TemplateID string
}

// LogPoint is one daily log as seen by the analytics.
type LogPoint struct {
	ExperimentID string
	Date         date.Date
	Mood         int
	Energy       int
	SleepHours   float64
	SleepQuality int
	Stress       int
	Weight       float64
	Compliance   map[string]bool
}

// References reports whether the log belongs to or records compliance for
// the experiment.
func (p LogPoint) References(experimentID string) bool {
	if p.ExperimentID == experimentID {
		return true
	}
	_, ok := p.Compliance[experimentID]
	return ok
}

// Value returns the metric reading and whether the log recorded one. Zero
// means unset for every metric except mood and energy.
func (p LogPoint) Value(metric Metric) (float64, bool) {
	switch metric {
	case MetricMood:
		return float64(p.Mood), p.Mood > 0
	case MetricEnergy:
		return float64(p.Energy), p.Energy > 0
	case MetricSleep:
		return p.SleepHours, p.SleepHours > 0
	case MetricSleepQuality:
		return float64(p.SleepQuality), p.SleepQuality > 0
	case MetricStress:
		return float64(p.Stress), p.Stress > 0
	case MetricWeight:
		return p.Weight, p.Weight > 0
	default:
		return 0, false
	}
}

// SortByDate orders points oldest first.
func SortByDate(points []LogPoint) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
}

// Series extracts the recorded values of metric in chronological order.
func Series(points []LogPoint, metric Metric) []float64 {
	sorted := append([]LogPoint(nil), points...)
	SortByDate(sorted)
	out := make([]float64, 0, len(sorted))
	for _, p := range sorted {
		if v, ok := p.Value(metric); ok {
			out = append(out, v)
		}
	}
	return out
}

// DailySeries is Series collapsed to one value per calendar day, the mean
// of that day's readings.
func DailySeries(points []LogPoint, metric Metric) []float64 {
	sorted := append([]LogPoint(nil), points...)
	SortByDate(sorted)
	out := make([]float64, 0, len(sorted))
	var (
		day   string
		sum   float64
		count int
	)
	flush := func() {
		if count > 0 {
			out = append(out, sum/float64(count))
		}
		sum, count = 0, 0
	}
	for _, p := range sorted {
		v, ok := p.Value(metric)
		if !ok {
			continue
		}
		if key := p.Date.String(); key != day {
			flush()
			day = key
		}
		sum += v
		count++
	}
	flush()
	return out
}

// Progress is the share of the experiment's span that has elapsed at now,
// in whole days rounded up, clamped to [0, 100].
func Progress(start, end date.Date, now time.Time) (float64, error) {
	total := math.Ceil(end.Time().Sub(start.Time()).Hours() / 24)
	if total <= 0 {
		return 0, fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidDateRange, start, end)
	}
	elapsed := math.Ceil(wallClock(now).Sub(start.Time()).Hours() / 24)
	return clamp(elapsed/total*100, 0, 100), nil
}

// wallClock reinterprets now's local reading in UTC so it lines up with
// date.Date midnights.
func wallClock(now time.Time) time.Time {
	y, m, d := now.Date()
	h, mi, s := now.Clock()
	return time.Date(y, m, d, h, mi, s, now.Nanosecond(), time.UTC)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

type TrendResult struct {
	Direction Direction
	Percent   float64
}

// Trend compares the mean of the latest seven values with the seven before
// them. Short series are stable.
func Trend(values []float64) TrendResult {
	if len(values) < TrendWindow {
		return TrendResult{Direction: DirectionStable}
	}
	window := values[len(values)-TrendWindow:]
	half := TrendWindow / 2
	previous := Average(window[:half])
	recent := Average(window[half:])

	if previous == 0 {
		switch {
		case recent > 0:
			return TrendResult{Direction: DirectionUp, Percent: 100}
		case recent < 0:
			return TrendResult{Direction: DirectionDown, Percent: -100}
		default:
			return TrendResult{Direction: DirectionStable}
		}
	}
	pct := (recent - previous) / math.Abs(previous) * 100
	switch {
	case math.Abs(pct) < StableThreshold:
		return TrendResult{Direction: DirectionStable, Percent: pct}
	case pct > 0:
		return TrendResult{Direction: DirectionUp, Percent: pct}
	default:
		return TrendResult{Direction: DirectionDown, Percent: pct}
	}
}

// Average is the arithmetic mean, or 0 for no values.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

type Compliance struct {
	Rate      float64
	Compliant int
	Counted   int
}

// ComplianceRate counts only logs that carry an entry for the experiment.
func ComplianceRate(points []LogPoint, experimentID string) Compliance {
	out := Compliance{}
	for _, p := range points {
		done, ok := p.Compliance[experimentID]
		if !ok {
			continue
		}
		out.Counted++
		if done {
			out.Compliant++
		}
	}
	if out.Counted > 0 {
		out.Rate = float64(out.Compliant) / float64(out.Counted) * 100
	}
	return out
}

// Streak counts consecutive logged days ending today.
func Streak(dates []date.Date, today date.Date) int {
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		seen[d.String()] = true
	}
	streak := 0
	for day := today; seen[day.String()]; day = day.AddDays(-1) {
		streak++
	}
	return streak
}

// DistinctDates returns each logged day once, newest first.
func DistinctDates(points []LogPoint) []date.Date {
	seen := map[string]bool{}
	out := make([]date.Date, 0, len(points))
	for _, p := range points {
		if key := p.Date.String(); !seen[key] {
			seen[key] = true
			out = append(out, p.Date)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}
