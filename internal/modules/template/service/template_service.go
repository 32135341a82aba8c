package service

import (
	"context"
	"fmt"
	"sort"

	"selflab/internal/modules/template/domain"
	templateout "selflab/internal/modules/template/port/out"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/logger"
)

type TemplateService struct {
	store   templateout.TemplateStore
	catalog templateout.Catalog
	log     *logger.Logger
}

func NewTemplateService(store templateout.TemplateStore, catalog templateout.Catalog, log *logger.Logger) *TemplateService {
	if log == nil {
		log = logger.Nop()
	}
	return &TemplateService{store: store, catalog: catalog, log: log}
}

// List materializes the built-in catalog on first use. When the medium
// cannot be written the built-in catalog is served from memory.
func (s *TemplateService) List(ctx context.Context) ([]domain.Template, error) {
	defaults, err := s.catalog.Defaults()
	if err != nil {
		return nil, err
	}
	seeded, err := s.store.Seed(ctx, defaults)
	if err != nil {
		s.log.Warn("serving built-in templates", "error", err)
		return defaults, nil
	}
	if seeded {
		s.log.Info("seeded template catalog", "count", len(defaults))
	}
	stored, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return defaults, nil
	}
	return stored, nil
}

func (s *TemplateService) Get(ctx context.Context, id string) (domain.Template, error) {
	templates, err := s.List(ctx)
	if err != nil {
		return domain.Template{}, err
	}
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Template{}, fmt.Errorf("template %s: %w", id, apperrors.ErrNotFound)
}

func (s *TemplateService) Search(ctx context.Context, query, category, difficulty string) ([]domain.Template, error) {
	templates, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Template, 0, len(templates))
	for _, t := range templates {
		if t.Matches(query, category, difficulty) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TemplateService) Categories(ctx context.Context) ([]string, error) {
	templates, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, t := range templates {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out, nil
}
