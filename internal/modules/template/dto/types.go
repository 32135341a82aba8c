package dto

type SearchInput struct {
	Query      string
	Category   string
	Difficulty string
}

type TemplateOutput struct {
	ID           string
	Name         string
	Description  string
	Hypothesis   string
	Category     string
	Difficulty   string
	DurationDays int
	Variables    []string
	Metrics      []string
	Protocol     string
}
