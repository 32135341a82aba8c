package out

import (
	"context"
	"encoding/json"

	"selflab/internal/modules/template/domain"
	templateout "selflab/internal/modules/template/port/out"
	"selflab/internal/platform/clock"
	"selflab/internal/platform/kv"
	"selflab/internal/platform/logger"
	"selflab/internal/platform/store"
)

const TemplatesKey = "selflab_templates"

type templateRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Hypothesis   string   `json:"hypothesis,omitempty"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	DurationDays int      `json:"duration_days"`
	Variables    []string `json:"variables,omitempty"`
	Metrics      []string `json:"metrics"`
	Protocol     string   `json:"protocol"`
}

type legacyTemplate struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Duration     int      `json:"duration"`
	Metrics      []string `json:"metrics"`
	Instructions string   `json:"instructions"`
	Category     string   `json:"category"`
}

type KVTemplateStore struct {
	templates *store.Collection[templateRecord]
}

func NewKVTemplateStore(manager *kv.Manager, clk clock.Clock, log *logger.Logger) templateout.TemplateStore {
	return &KVTemplateStore{templates: store.NewCollection(manager, clk, log, store.Schema[templateRecord]{
		Key:    TemplatesKey,
		ID:     func(r templateRecord) string { return r.ID },
		Legacy: upgradeLegacyTemplates,
	})}
}

func upgradeLegacyTemplates(raw json.RawMessage) ([]templateRecord, error) {
	var legacy []legacyTemplate
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, err
	}
	out := make([]templateRecord, 0, len(legacy))
	for _, l := range legacy {
		out = append(out, templateRecord{
			ID:           l.ID,
			Name:         l.Name,
			Description:  l.Description,
			Category:     l.Category,
			Difficulty:   string(domain.DifficultyBeginner),
			DurationDays: l.Duration,
			Metrics:      l.Metrics,
			Protocol:     l.Instructions,
		})
	}
	return out, nil
}

func (s *KVTemplateStore) List(ctx context.Context) ([]domain.Template, error) {
	records, err := s.templates.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Template, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Template{
			ID:           r.ID,
			Name:         r.Name,
			Description:  r.Description,
			Hypothesis:   r.Hypothesis,
			Category:     r.Category,
			Difficulty:   domain.Difficulty(r.Difficulty),
			DurationDays: r.DurationDays,
			Variables:    r.Variables,
			Metrics:      r.Metrics,
			Protocol:     r.Protocol,
		})
	}
	return out, nil
}

func (s *KVTemplateStore) Seed(ctx context.Context, templates []domain.Template) (bool, error) {
	records := make([]templateRecord, 0, len(templates))
	for _, t := range templates {
		records = append(records, templateRecord{
			ID:           t.ID,
			Name:         t.Name,
			Description:  t.Description,
			Hypothesis:   t.Hypothesis,
			Category:     t.Category,
			Difficulty:   string(t.Difficulty),
			DurationDays: t.DurationDays,
			Variables:    t.Variables,
			Metrics:      t.Metrics,
			Protocol:     t.Protocol,
		})
	}
	return s.templates.Seed(ctx, records)
}
