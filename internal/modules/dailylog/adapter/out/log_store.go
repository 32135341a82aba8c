package out

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"selflab/internal/modules/dailylog/domain"
	dailylogout "selflab/internal/modules/dailylog/port/out"
	"selflab/internal/platform/clock"
	"selflab/internal/platform/date"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/kv"
	"selflab/internal/platform/logger"
	"selflab/internal/platform/store"
)

const DailyLogsKey = "selflab_daily_logs"

type logRecord struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	ExperimentID string          `json:"experiment_id,omitempty"`
	Date         date.Date       `json:"date"`
	Mood         int             `json:"mood"`
	Energy       int             `json:"energy"`
	SleepHours   float64         `json:"sleep_hours"`
	SleepQuality int             `json:"sleep_quality,omitempty"`
	Stress       int             `json:"stress,omitempty"`
	Weight       float64         `json:"weight,omitempty"`
	Compliance   map[string]bool `json:"compliance,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// legacyLog is the browser-era layout with a numeric compliance score for
// the single experiment the log belonged to.
type legacyLog struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ExperimentID string    `json:"experimentId"`
	Date         date.Date `json:"date"`
	Mood         int       `json:"mood"`
	Energy       int       `json:"energy"`
	Sleep        float64   `json:"sleep"`
	Compliance   float64   `json:"compliance"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

type KVLogStore struct {
	logs *store.Collection[logRecord]
}

func NewKVLogStore(manager *kv.Manager, clk clock.Clock, log *logger.Logger) dailylogout.LogStore {
	return &KVLogStore{logs: store.NewCollection(manager, clk, log, store.Schema[logRecord]{
		Key: DailyLogsKey,
		ID:  func(r logRecord) string { return r.ID },
		Touch: func(r logRecord, at time.Time) logRecord {
			r.UpdatedAt = at
			return r
		},
		Legacy: upgradeLegacyLogs,
	})}
}

func upgradeLegacyLogs(raw json.RawMessage) ([]logRecord, error) {
	var legacy []legacyLog
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, err
	}
	out := make([]logRecord, 0, len(legacy))
	for _, l := range legacy {
		record := logRecord{
			ID:           l.ID,
			UserID:       l.UserID,
			ExperimentID: l.ExperimentID,
			Date:         l.Date,
			Mood:         l.Mood,
			Energy:       l.Energy,
			SleepHours:   l.Sleep,
			Notes:        l.Notes,
			CreatedAt:    l.CreatedAt,
			UpdatedAt:    l.CreatedAt,
		}
		if l.ExperimentID != "" {
			record.Compliance = map[string]bool{l.ExperimentID: l.Compliance > 0}
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *KVLogStore) Save(ctx context.Context, log domain.DailyLog) error {
	_, err := s.logs.Save(ctx, toRecord(log))
	return err
}

func (s *KVLogStore) FindByKey(ctx context.Context, key domain.Key) (domain.DailyLog, error) {
	record, ok, err := s.logs.FindUniqueBy(ctx, func(r logRecord) bool { return key.Matches(toDomain(r)) })
	if err != nil {
		return domain.DailyLog{}, err
	}
	if !ok {
		return domain.DailyLog{}, fmt.Errorf("daily log %s: %w", key.Date, apperrors.ErrNotFound)
	}
	return toDomain(record), nil
}

func (s *KVLogStore) ListByUser(ctx context.Context, userID string) ([]domain.DailyLog, error) {
	records, err := s.logs.List(ctx, func(r logRecord) bool { return r.UserID == userID })
	if err != nil {
		return nil, err
	}
	out := make([]domain.DailyLog, 0, len(records))
	for _, r := range records {
		out = append(out, toDomain(r))
	}
	return out, nil
}

func (s *KVLogStore) DeleteByExperiment(ctx context.Context, experimentID string) (int, error) {
	return s.logs.DeleteWhere(ctx, func(r logRecord) bool { return r.ExperimentID == experimentID })
}

func (s *KVLogStore) StripCompliance(ctx context.Context, experimentID string) (int, error) {
	return s.logs.UpdateWhere(ctx, func(r logRecord) (logRecord, bool) {
		if _, ok := r.Compliance[experimentID]; !ok {
			return r, false
		}
		next := make(map[string]bool, len(r.Compliance)-1)
		for id, v := range r.Compliance {
			if id != experimentID {
				next[id] = v
			}
		}
		r.Compliance = next
		return r, true
	})
}

func toRecord(l domain.DailyLog) logRecord {
	return logRecord{
		ID:           l.ID,
		UserID:       l.UserID,
		ExperimentID: l.ExperimentID,
		Date:         l.Date,
		Mood:         l.Mood,
		Energy:       l.Energy,
		SleepHours:   l.SleepHours,
		SleepQuality: l.SleepQuality,
		Stress:       l.Stress,
		Weight:       l.Weight,
		Compliance:   l.Compliance,
		Notes:        l.Notes,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toDomain(r logRecord) domain.DailyLog {
	return domain.DailyLog{
		ID:           r.ID,
		UserID:       r.UserID,
		ExperimentID: r.ExperimentID,
		Date:         r.Date,
		Mood:         r.Mood,
		Energy:       r.Energy,
		SleepHours:   r.SleepHours,
		SleepQuality: r.SleepQuality,
		Stress:       r.Stress,
		Weight:       r.Weight,
		Compliance:   r.Compliance,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
