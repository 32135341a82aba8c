package domain_test

import (
	"math"
	"testing"
	"time"

	"selflab/internal/modules/dailylog/domain"
	"selflab/internal/platform/date"
)

func validLog() domain.DailyLog {
	return domain.DailyLog{
		ID:         "log-1",
		UserID:     "u1",
		Date:       date.New(2026, time.March, 2),
		Mood:       3,
		Energy:     4,
		SleepHours: 7.5,
	}
}

func TestDailyLogValidate(t *testing.T) {
	t.Parallel()
	if err := validLog().Validate(); err != nil {
		t.Fatalf("valid log rejected: %v", err)
	}
	mutations := map[string]func(*domain.DailyLog){
		"mood too high":       func(l *domain.DailyLog) { l.Mood = 6 },
		"energy zero":         func(l *domain.DailyLog) { l.Energy = 0 },
		"sleep negative":      func(l *domain.DailyLog) { l.SleepHours = -1 },
		"sleep past day":      func(l *domain.DailyLog) { l.SleepHours = 25 },
		"stress too high":     func(l *domain.DailyLog) { l.Stress = 11 },
		"missing date":        func(l *domain.DailyLog) { l.Date = date.Date{} },
		"missing user":        func(l *domain.DailyLog) { l.UserID = "" },
		"negative weight":     func(l *domain.DailyLog) { l.Weight = -70 },
		"sleep not a number":  func(l *domain.DailyLog) { l.SleepHours = math.NaN() },
		"sleep infinite":      func(l *domain.DailyLog) { l.SleepHours = math.Inf(-1) },
		"weight infinite":     func(l *domain.DailyLog) { l.Weight = math.Inf(1) },
		"weight not a number": func(l *domain.DailyLog) { l.Weight = math.NaN() },
	}
	for name, mutate := range mutations {
		l := validLog()
		mutate(&l)
		if err := l.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestKeyAndReferences(t *testing.T) {
	t.Parallel()
	l := validLog()
	l.ExperimentID = "exp-1"
	l.Compliance = map[string]bool{"exp-2": false}

	if !l.Key().Matches(l) {
		t.Fatalf("log should match its own key")
	}
	other := l
	other.Date = l.Date.AddDays(1)
	if l.Key().Matches(other) {
		t.Fatalf("different date must not match")
	}
	if !l.References("exp-1") || !l.References("exp-2") || l.References("exp-3") {
		t.Fatalf("unexpected references result")
	}
}
