package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"selflab/internal/modules/experiment/domain"
	experimentout "selflab/internal/modules/experiment/port/out"
	"selflab/internal/platform/clock"
	"selflab/internal/platform/date"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/id"
	"selflab/internal/platform/logger"
	"selflab/internal/platform/tx"
)

type ExperimentService struct {
	clock     clock.Clock
	idGen     id.Generator
	tx        tx.Manager
	store     experimentout.ExperimentStore
	purger    experimentout.LogPurger
	templates experimentout.TemplateSource
	log       *logger.Logger
}

func NewExperimentService(
	clock clock.Clock,
	idGen id.Generator,
	txm tx.Manager,
	store experimentout.ExperimentStore,
	purger experimentout.LogPurger,
	templates experimentout.TemplateSource,
	log *logger.Logger,
) *ExperimentService {
	if log == nil {
		log = logger.Nop()
	}
	return &ExperimentService{clock: clock, idGen: idGen, tx: txm, store: store, purger: purger, templates: templates, log: log}
}

// Draft carries the user-supplied fields of a new experiment. When EndDate
// is zero it is derived from DurationDays.
type Draft struct {
	UserID       string
	Name         string
	Hypothesis   string
	Description  string
	StartDate    date.Date
	EndDate      date.Date
	DurationDays int
	Variables    []string
	Metrics      []string
	Notes        string
}

func (s *ExperimentService) Create(ctx context.Context, draft Draft) (domain.Experiment, error) {
	start := draft.StartDate
	if start.IsZero() {
		start = date.Of(s.clock.Now())
	}
	end := draft.EndDate
	if end.IsZero() {
		if draft.DurationDays <= 0 {
			return domain.Experiment{}, fmt.Errorf("%w: end date or duration is required", apperrors.ErrInvalidInput)
		}
		end = start.AddDays(draft.DurationDays)
	}
	metrics := cleanList(draft.Metrics)
	if len(metrics) == 0 {
		metrics = append([]string(nil), domain.DefaultMetrics...)
	}
	return s.insert(ctx, domain.Experiment{
		UserID:      strings.TrimSpace(draft.UserID),
		Name:        strings.TrimSpace(draft.Name),
		Hypothesis:  strings.TrimSpace(draft.Hypothesis),
		Description: strings.TrimSpace(draft.Description),
		StartDate:   start,
		EndDate:     end,
		Status:      domain.StatusActive,
		Variables:   cleanList(draft.Variables),
		Metrics:     metrics,
		Notes:       draft.Notes,
	})
}

func (s *ExperimentService) CreateFromTemplate(ctx context.Context, userID, templateID string, start date.Date) (domain.Experiment, error) {
	plan, err := s.templates.GetPlan(ctx, templateID)
	if err != nil {
		return domain.Experiment{}, err
	}
	if start.IsZero() {
		start = date.Of(s.clock.Now())
	}
	return s.insert(ctx, domain.FromTemplate(plan, strings.TrimSpace(userID), start))
}

func (s *ExperimentService) insert(ctx context.Context, exp domain.Experiment) (domain.Experiment, error) {
	now := s.clock.Now()
	exp.ID = s.idGen.New()
	exp.CreatedAt = now
	exp.UpdatedAt = now
	if err := exp.Validate(); err != nil {
		return domain.Experiment{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.store.Save(ctx, exp); err != nil {
		return domain.Experiment{}, err
	}
	s.log.Info("experiment created", "user_id", exp.UserID, "experiment_id", exp.ID, "template_id", exp.TemplateID)
	return exp, nil
}

// List returns the user's experiments, newest first, optionally limited to
// one status.
func (s *ExperimentService) List(ctx context.Context, userID string, status domain.Status) ([]domain.Experiment, error) {
	if status != "" {
		if err := status.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	}
	all, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Experiment, 0, len(all))
	for _, exp := range all {
		if status == "" || exp.Status == status {
			out = append(out, exp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Get hides experiments owned by other users behind ErrNotFound.
func (s *ExperimentService) Get(ctx context.Context, userID, experimentID string) (domain.Experiment, error) {
	exp, err := s.store.FindByID(ctx, experimentID)
	if err != nil {
		return domain.Experiment{}, err
	}
	if exp.UserID != userID {
		return domain.Experiment{}, fmt.Errorf("experiment %s: %w", experimentID, apperrors.ErrNotFound)
	}
	return exp, nil
}

// Patch lists the fields Update may change. Nil fields are left alone.
type Patch struct {
	Name        *string
	Hypothesis  *string
	Description *string
	StartDate   *date.Date
	EndDate     *date.Date
	Status      *domain.Status
	Variables   []string
	Metrics     []string
	Notes       *string
}

func (s *ExperimentService) Update(ctx context.Context, userID, experimentID string, patch Patch) (domain.Experiment, error) {
	var updated domain.Experiment
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		exp, err := s.Get(ctx, userID, experimentID)
		if err != nil {
			return err
		}
		applyPatch(&exp, patch)
		exp.UpdatedAt = s.clock.Now()
		if err := exp.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		updated = exp
		return s.store.Save(ctx, exp)
	})
	if err != nil {
		return domain.Experiment{}, err
	}
	return updated, nil
}

func (s *ExperimentService) SetStatus(ctx context.Context, userID, experimentID string, status domain.Status) (domain.Experiment, error) {
	return s.Update(ctx, userID, experimentID, Patch{Status: &status})
}

// Delete removes the experiment and every daily log that references it in
// one transaction. A missing experiment reports deleted=false.
func (s *ExperimentService) Delete(ctx context.Context, userID, experimentID string) (bool, int, error) {
	deleted, removed := false, 0
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, userID, experimentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			return err
		}
		ok, err := s.store.Delete(ctx, experimentID)
		if err != nil {
			return err
		}
		n, err := s.purger.PurgeExperiment(ctx, experimentID)
		if err != nil {
			return fmt.Errorf("purge daily logs: %w", err)
		}
		deleted, removed = ok, n
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	if deleted {
		s.log.Info("experiment deleted", "user_id", userID, "experiment_id", experimentID, "logs_removed", removed)
	}
	return deleted, removed, nil
}

func applyPatch(exp *domain.Experiment, patch Patch) {
	if patch.Name != nil {
		exp.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Hypothesis != nil {
		exp.Hypothesis = strings.TrimSpace(*patch.Hypothesis)
	}
	if patch.Description != nil {
		exp.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.StartDate != nil {
		exp.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		exp.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		exp.Status = *patch.Status
	}
	if patch.Variables != nil {
		exp.Variables = cleanList(patch.Variables)
	}
	if patch.Metrics != nil {
		exp.Metrics = cleanList(patch.Metrics)
	}
	if patch.Notes != nil {
		exp.Notes = *patch.Notes
	}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
