package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"selflab/internal/modules/insight/domain"
	insightout "selflab/internal/modules/insight/port/out"
	"selflab/internal/platform/markdown"
	"selflab/internal/platform/slug"
)

// ErrUnreadableReport is returned instead of overwriting a report whose
// frontmatter no longer parses.
var ErrUnreadableReport = errors.New("existing report cannot be parsed")

// MarkdownReports writes one note per experiment under dir. Re-exporting
// refreshes the frontmatter and the managed insights block only.
type MarkdownReports struct {
	dir string
}

func NewMarkdownReports(dir string) insightout.ReportWriter {
	return &MarkdownReports{dir: dir}
}

func (w *MarkdownReports) Write(_ context.Context, report domain.Report) (string, string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create reports directory: %w", err)
	}
	path := filepath.Join(w.dir, ReportName(report.Summary.Experiment)+".md")

	body := ""
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		_, existingBody, splitErr := markdown.SplitFrontmatter(string(existing))
		if splitErr != nil {
			return "", "", fmt.Errorf("%w: report %s: %v", ErrUnreadableReport, path, splitErr)
		}
		body = existingBody
	case !errors.Is(err, os.ErrNotExist):
		return "", "", fmt.Errorf("read report: %w", err)
	}
	if strings.TrimSpace(body) == "" {
		body = report.Skeleton()
	}
	body = markdown.ReplaceManagedBlock(body, domain.ManagedInsightsStart, domain.ManagedInsightsEnd, report.Insights())

	rendered, err := markdown.RenderFrontmatter(report.Frontmatter(), body)
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", "", fmt.Errorf("write report: %w", err)
	}
	return path, rendered, nil
}

// ReportName is the file stem for an experiment's report.
func ReportName(exp domain.ExperimentInfo) string {
	short := exp.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return slug.Make(exp.Name + " " + short)
}
