package domain

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// FilterAll disables a category or difficulty filter.
const FilterAll = "all"

func (d Difficulty) Validate() error {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return nil
	default:
		return fmt.Errorf("unsupported difficulty %q", string(d))
	}
}

type Template struct {
	ID           string
	Name         string
	Description  string
	Hypothesis   string
	Category     string
	Difficulty   Difficulty
	DurationDays int
	Variables    []string
	Metrics      []string
	Protocol     string
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template %s: name is required", t.ID)
	}
	if t.DurationDays <= 0 {
		return fmt.Errorf("template %s: duration must be positive", t.ID)
	}
	if err := t.Difficulty.Validate(); err != nil {
		return fmt.Errorf("template %s: %w", t.ID, err)
	}
	return nil
}

// Matches applies the library filters. Query is a case-insensitive
// substring of name, description or category; empty or "all" filters match
// everything.
func (t Template) Matches(query, category, difficulty string) bool {
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		hay := strings.ToLower(t.Name + "\n" + t.Description + "\n" + t.Category)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if category != "" && category != FilterAll && !strings.EqualFold(category, t.Category) {
		return false
	}
	if difficulty != "" && difficulty != FilterAll && !strings.EqualFold(difficulty, string(t.Difficulty)) {
		return false
	}
	return true
}
