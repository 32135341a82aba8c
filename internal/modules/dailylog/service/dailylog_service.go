package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"selflab/internal/modules/dailylog/domain"
	dailylogout "selflab/internal/modules/dailylog/port/out"
	"selflab/internal/platform/clock"
	"selflab/internal/platform/date"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/id"
	"selflab/internal/platform/logger"
	"selflab/internal/platform/tx"
)

type DailyLogService struct {
	clock clock.Clock
	idGen id.Generator
	tx    tx.Manager
	store dailylogout.LogStore
	log   *logger.Logger
}

func NewDailyLogService(clock clock.Clock, idGen id.Generator, txm tx.Manager, store dailylogout.LogStore, log *logger.Logger) *DailyLogService {
	if log == nil {
		log = logger.Nop()
	}
	return &DailyLogService{clock: clock, idGen: idGen, tx: txm, store: store, log: log}
}

// Save upserts on (user, experiment, date): an existing log keeps its id
// and creation time and takes every other field from entry.
func (s *DailyLogService) Save(ctx context.Context, entry domain.DailyLog) (domain.DailyLog, bool, error) {
	entry.UserID = strings.TrimSpace(entry.UserID)
	entry.ExperimentID = strings.TrimSpace(entry.ExperimentID)
	now := s.clock.Now()
	if entry.Date.IsZero() {
		entry.Date = date.Of(now)
	}
	entry.UpdatedAt = now
	created := false
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		existing, err := s.store.FindByKey(ctx, entry.Key())
		switch {
		case err == nil:
			entry.ID = existing.ID
			entry.CreatedAt = existing.CreatedAt
		case errors.Is(err, apperrors.ErrNotFound):
			created = true
			entry.ID = s.idGen.New()
			entry.CreatedAt = now
		default:
			return err
		}
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		return s.store.Save(ctx, entry)
	})
	if err != nil {
		return domain.DailyLog{}, false, err
	}
	s.log.Debug("daily log saved", "user_id", entry.UserID, "date", entry.Date.String(), "created", created)
	return entry, created, nil
}

func (s *DailyLogService) Get(ctx context.Context, key domain.Key) (domain.DailyLog, error) {
	return s.store.FindByKey(ctx, key)
}

// Filter narrows List. Zero values disable each bound.
type Filter struct {
	ExperimentID string
	From         date.Date
	To           date.Date
}

// List returns the user's logs newest first.
func (s *DailyLogService) List(ctx context.Context, userID string, filter Filter) ([]domain.DailyLog, error) {
	logs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DailyLog, 0, len(logs))
	for _, l := range logs {
		if filter.ExperimentID != "" && !l.References(filter.ExperimentID) {
			continue
		}
		if !filter.From.IsZero() && l.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && l.Date.After(filter.To) {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// PurgeExperiment deletes the experiment's logs and drops its compliance
// entries from every other log, so nothing references it afterwards.
func (s *DailyLogService) PurgeExperiment(ctx context.Context, experimentID string) (int, error) {
	if strings.TrimSpace(experimentID) == "" {
		return 0, fmt.Errorf("%w: experiment id is required", apperrors.ErrInvalidInput)
	}
	removed := 0
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		n, err := s.store.DeleteByExperiment(ctx, experimentID)
		if err != nil {
			return err
		}
		removed = n
		_, err = s.store.StripCompliance(ctx, experimentID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
