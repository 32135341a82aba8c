package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"selflab/internal/platform/date"
)

const (
	MinRating = 1
	MaxRating = 5

	MinScale = 1
	MaxScale = 10

	MaxSleepHours = 24
)

type DailyLog struct {
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
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Key is the upsert identity of a log.
type Key struct {
	UserID       string
	ExperimentID string
	Date         date.Date
}

func (l DailyLog) Key() Key {
	return Key{UserID: l.UserID, ExperimentID: l.ExperimentID, Date: l.Date}
}

func (k Key) Matches(l DailyLog) bool {
	return l.UserID == k.UserID && l.ExperimentID == k.ExperimentID && l.Date.Equal(k.Date)
}

// Validate checks ratings. Zero sleep quality, stress and weight mean the
// value was not recorded.
func (l DailyLog) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(l.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if l.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if l.Mood < MinRating || l.Mood > MaxRating {
		return fmt.Errorf("mood must be between %d and %d", MinRating, MaxRating)
	}
	if l.Energy < MinRating || l.Energy > MaxRating {
		return fmt.Errorf("energy must be between %d and %d", MinRating, MaxRating)
	}
	if !finite(l.SleepHours) || l.SleepHours < 0 || l.SleepHours > MaxSleepHours {
		return fmt.Errorf("sleep hours must be between 0 and %d", MaxSleepHours)
	}
	if l.SleepQuality != 0 && (l.SleepQuality < MinScale || l.SleepQuality > MaxScale) {
		return fmt.Errorf("sleep quality must be between %d and %d", MinScale, MaxScale)
	}
	if l.Stress != 0 && (l.Stress < MinScale || l.Stress > MaxScale) {
		return fmt.Errorf("stress must be between %d and %d", MinScale, MaxScale)
	}
	if !finite(l.Weight) || l.Weight < 0 {
		return fmt.Errorf("weight must be a non-negative number")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// References reports whether the log belongs to or mentions experimentID.
func (l DailyLog) References(experimentID string) bool {
	if l.ExperimentID == experimentID {
		return true
	}
	_, ok := l.Compliance[experimentID]
	return ok
}
