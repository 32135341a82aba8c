package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	templateout "selflab/internal/modules/template/adapter/out"
	"selflab/internal/modules/template/dto"
	templatein "selflab/internal/modules/template/port/in"
	"selflab/internal/modules/template/service"
	"selflab/internal/modules/template/usecase"
	apperrors "selflab/internal/platform/errors"
	"selflab/internal/platform/kv"
)

type fakeClock struct{}

func (fakeClock) Now() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

func newTemplates(medium kv.Medium) templatein.Usecase {
	manager := kv.NewManager(medium)
	return usecase.NewInteractor(service.NewTemplateService(
		templateout.NewKVTemplateStore(manager, fakeClock{}, nil),
		templateout.NewEmbeddedCatalog(),
		nil,
	))
}

func TestListSeedsCatalogOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	medium := kv.NewMemoryMedium(0)
	uc := newTemplates(medium)

	templates, err := uc.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(templates) != 6 {
		t.Fatalf("expected six built-in templates, got %d", len(templates))
	}
	if _, found, _ := medium.Load(ctx, templateout.TemplatesKey); !found {
		t.Fatalf("catalog should be materialized into storage")
	}
	cold, err := uc.GetTemplate(ctx, "template-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cold.Name != "Cold Shower Challenge" || cold.DurationDays != 21 || cold.Protocol == "" {
		t.Fatalf("unexpected template: %+v", cold)
	}
	if _, err := uc.GetTemplate(ctx, "template-99"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListServesBuiltInsWhenStorageIsAbsent(t *testing.T) {
	t.Parallel()
	templates, err := newTemplates(kv.Unavailable{}).ListTemplates(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(templates) != 6 {
		t.Fatalf("expected built-in templates, got %d", len(templates))
	}
}

func TestSearchAndCategories(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newTemplates(kv.NewMemoryMedium(0))

	circadian, err := uc.Search(ctx, dto.SearchInput{Category: "Circadian"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(circadian) != 2 {
		t.Fatalf("expected two circadian templates, got %d", len(circadian))
	}
	hiit, err := uc.Search(ctx, dto.SearchInput{Query: "intense", Difficulty: "advanced"})
	if err != nil || len(hiit) != 1 || hiit[0].ID != "template-5" {
		t.Fatalf("unexpected query result: %+v err=%v", hiit, err)
	}
	categories, err := uc.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := []string{"Circadian", "Mental", "Nutrition", "Physical"}
	if len(categories) != len(want) {
		t.Fatalf("unexpected categories %v", categories)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Fatalf("unexpected categories %v", categories)
		}
	}
}

func TestLegacyTemplatesAreUpgraded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	medium := kv.NewMemoryMedium(0)
	legacy := `[{"id":"template-1","name":"Custom","description":"d","duration":10,"metrics":["mood"],"instructions":"do it","category":"Physical"}]`
	if err := medium.Commit(ctx, []kv.Write{{Key: templateout.TemplatesKey, Value: []byte(legacy)}}); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}
	tpl, err := newTemplates(medium).GetTemplate(ctx, "template-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tpl.Name != "Custom" || tpl.DurationDays != 10 || tpl.Protocol != "do it" {
		t.Fatalf("legacy fields not mapped: %+v", tpl)
	}
}
