package out

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"selflab/internal/modules/experiment/domain"
	experimentout "selflab/internal/modules/experiment/port/out"
	"selflab/internal/platform/clock"
	"selflab/internal/platform/date"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/kv"
	"selflab/internal/platform/logger"
	"selflab/internal/platform/store"
)

const ExperimentsKey = "selflab_experiments"

type experimentRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Hypothesis  string    `json:"hypothesis,omitempty"`
	Description string    `json:"description,omitempty"`
	StartDate   date.Date `json:"start_date"`
	EndDate     date.Date `json:"end_date"`
	Status      string    `json:"status"`
	Variables   []string  `json:"variables,omitempty"`
	Metrics     []string  `json:"metrics"`
	Notes       string    `json:"notes,omitempty"`
	TemplateID  string    `json:"template_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type legacyExperiment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	StartDate   date.Date `json:"startDate"`
	EndDate     date.Date `json:"endDate"`
	Status      string    `json:"status"`
	Metrics     []string  `json:"metrics"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type KVExperimentStore struct {
	experiments *store.Collection[experimentRecord]
}

func NewKVExperimentStore(manager *kv.Manager, clk clock.Clock, log *logger.Logger) experimentout.ExperimentStore {
	return &KVExperimentStore{experiments: store.NewCollection(manager, clk, log, store.Schema[experimentRecord]{
		Key: ExperimentsKey,
		ID:  func(r experimentRecord) string { return r.ID },
		Touch: func(r experimentRecord, at time.Time) experimentRecord {
			r.UpdatedAt = at
			return r
		},
		Legacy: upgradeLegacyExperiments,
	})}
}

func upgradeLegacyExperiments(raw json.RawMessage) ([]experimentRecord, error) {
	var legacy []legacyExperiment
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, err
	}
	out := make([]experimentRecord, 0, len(legacy))
	for _, l := range legacy {
		end := l.EndDate
		if end.IsZero() {
			end = l.StartDate.AddDays(l.Duration)
		}
		out = append(out, experimentRecord{
			ID:          l.ID,
			UserID:      l.UserID,
			Name:        l.Name,
			Description: l.Description,
			StartDate:   l.StartDate,
			EndDate:     end,
			Status:      l.Status,
			Metrics:     l.Metrics,
			Notes:       l.Notes,
			CreatedAt:   l.CreatedAt,
			UpdatedAt:   l.UpdatedAt,
		})
	}
	return out, nil
}

func (s *KVExperimentStore) Save(ctx context.Context, exp domain.Experiment) error {
	_, err := s.experiments.Save(ctx, experimentRecord{
		ID:          exp.ID,
		UserID:      exp.UserID,
		Name:        exp.Name,
		Hypothesis:  exp.Hypothesis,
		Description: exp.Description,
		StartDate:   exp.StartDate,
		EndDate:     exp.EndDate,
		Status:      string(exp.Status),
		Variables:   exp.Variables,
		Metrics:     exp.Metrics,
		Notes:       exp.Notes,
		TemplateID:  exp.TemplateID,
		CreatedAt:   exp.CreatedAt,
		UpdatedAt:   exp.UpdatedAt,
	})
	return err
}

func (s *KVExperimentStore) FindByID(ctx context.Context, id string) (domain.Experiment, error) {
	record, ok, err := s.experiments.FindByID(ctx, id)
	if err != nil {
		return domain.Experiment{}, err
	}
	if !ok {
		return domain.Experiment{}, fmt.Errorf("experiment %s: %w", id, apperrors.ErrNotFound)
	}
	return toDomain(record), nil
}

func (s *KVExperimentStore) ListByUser(ctx context.Context, userID string) ([]domain.Experiment, error) {
	records, err := s.experiments.List(ctx, func(r experimentRecord) bool { return r.UserID == userID })
	if err != nil {
		return nil, err
	}
	out := make([]domain.Experiment, 0, len(records))
	for _, r := range records {
		out = append(out, toDomain(r))
	}
	return out, nil
}

func (s *KVExperimentStore) Delete(ctx context.Context, id string) (bool, error) {
	return s.experiments.DeleteByID(ctx, id)
}

func toDomain(r experimentRecord) domain.Experiment {
	return domain.Experiment{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Hypothesis:  r.Hypothesis,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Status:      domain.Status(r.Status),
		Variables:   r.Variables,
		Metrics:     r.Metrics,
		Notes:       r.Notes,
		TemplateID:  r.TemplateID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
