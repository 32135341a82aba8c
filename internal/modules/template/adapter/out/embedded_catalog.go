package out

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"selflab/internal/modules/template/domain"
	templateout "selflab/internal/modules/template/port/out"
)

//go:embed templates.yaml
var seedYAML []byte

type seedEntry struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Hypothesis   string   `yaml:"hypothesis"`
	Category     string   `yaml:"category"`
	Difficulty   string   `yaml:"difficulty"`
	DurationDays int      `yaml:"duration_days"`
	Variables    []string `yaml:"variables"`
	Metrics      []string `yaml:"metrics"`
	Protocol     string   `yaml:"protocol"`
}

type EmbeddedCatalog struct {
	raw []byte
}

func NewEmbeddedCatalog() templateout.Catalog {
	return EmbeddedCatalog{raw: seedYAML}
}

// NewYAMLCatalog parses templates from raw instead of the built-in list.
func NewYAMLCatalog(raw []byte) templateout.Catalog {
	return EmbeddedCatalog{raw: raw}
}

func (c EmbeddedCatalog) Defaults() ([]domain.Template, error) {
	var entries []seedEntry
	if err := yaml.Unmarshal(c.raw, &entries); err != nil {
		return nil, fmt.Errorf("decode template catalog: %w", err)
	}
	out := make([]domain.Template, 0, len(entries))
	for _, e := range entries {
		tpl := domain.Template{
			ID:           e.ID,
			Name:         e.Name,
			Description:  e.Description,
			Hypothesis:   e.Hypothesis,
			Category:     e.Category,
			Difficulty:   domain.Difficulty(e.Difficulty),
			DurationDays: e.DurationDays,
			Variables:    e.Variables,
			Metrics:      e.Metrics,
			Protocol:     e.Protocol,
		}
		if err := tpl.Validate(); err != nil {
			return nil, fmt.Errorf("template catalog: %w", err)
		}
		out = append(out, tpl)
	}
	return out, nil
}
