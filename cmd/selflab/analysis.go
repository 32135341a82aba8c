package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"selflab/internal/bootstrap"
	accountdto "selflab/internal/modules/account/dto"
	insightdto "selflab/internal/modules/insight/dto"
	plugindto "selflab/internal/modules/plugin/dto"
	templatedto "selflab/internal/modules/template/dto"
)

func newTemplateCmd(c *cli) *cobra.Command {
	tpl := &cobra.Command{Use: "template", Short: "Browse experiment templates"}

	printTemplates := func(cmd *cobra.Command, templates []templatedto.TemplateOutput) {
		if len(templates) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no templates")
			return
		}
		rows := make([][]string, 0, len(templates))
		for _, t := range templates {
			rows = append(rows, []string{t.ID, t.Name, t.Category, t.Difficulty, fmt.Sprintf("%dd", t.DurationDays)})
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "NAME", "CATEGORY", "DIFFICULTY", "DURATION"}, rows))
	}

	tpl.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				templates, err := app.TemplateCLI.ListTemplates(ctx)
				if err != nil {
					return err
				}
				printTemplates(cmd, templates)
				return nil
			})
		},
	})

	tpl.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a template and its protocol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				t, err := app.TemplateCLI.GetTemplate(ctx, args[0])
				if err != nil {
					return err
				}
				var md strings.Builder
				fmt.Fprintf(&md, "# %s\n\n%s\n\n", t.Name, t.Description)
				fmt.Fprintf(&md, "- **Category:** %s\n- **Difficulty:** %s\n- **Duration:** %d days\n", t.Category, t.Difficulty, t.DurationDays)
				if len(t.Metrics) > 0 {
					fmt.Fprintf(&md, "- **Metrics:** %s\n", strings.Join(t.Metrics, ", "))
				}
				if len(t.Variables) > 0 {
					fmt.Fprintf(&md, "- **Variables:** %s\n", strings.Join(t.Variables, ", "))
				}
				fmt.Fprintf(&md, "\n## Hypothesis\n\n%s\n", t.Hypothesis)
				if t.Protocol != "" {
					fmt.Fprintf(&md, "\n## Protocol\n\n%s\n", t.Protocol)
				}
				return printMarkdown(cmd, md.String())
			})
		},
	})

	var category, difficulty string
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search templates by text, category and difficulty",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				templates, err := app.TemplateCLI.Search(ctx, query, category, difficulty)
				if err != nil {
					return err
				}
				printTemplates(cmd, templates)
				return nil
			})
		},
	}
	search.Flags().StringVar(&category, "category", "", "category filter")
	search.Flags().StringVar(&difficulty, "difficulty", "", "difficulty filter: beginner|intermediate|advanced")

	tpl.AddCommand(search, &cobra.Command{
		Use:   "categories",
		Short: "List template categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				cats, err := app.TemplateCLI.Categories(ctx)
				if err != nil {
					return err
				}
				for _, cat := range cats {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), cat)
				}
				return nil
			})
		},
	})
	return tpl
}

func newInsightCmd(c *cli) *cobra.Command {
	insight := &cobra.Command{Use: "insight", Short: "Progress, trends and reports"}

	insight.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show your overall stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				s, err := app.InsightCLI.Stats(ctx, user.UserID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(),
					"experiments: %d (active %d, paused %d, completed %d)\nlogs: %d\nstreak: %d days\navg mood: %.1f\navg energy: %.1f\navg sleep: %.1fh\n",
					s.TotalExperiments, s.ActiveExperiments, s.PausedExperiments, s.CompletedExperiments,
					s.TotalLogs, s.CurrentStreak, s.AvgMood, s.AvgEnergy, s.AvgSleep)
				return nil
			})
		},
	})

	insight.AddCommand(&cobra.Command{
		Use:   "progress <experiment-id>",
		Short: "Show how far through its date range an experiment is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				p, err := app.InsightCLI.Progress(ctx, user.UserID, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %.1f%% (%s → %s)\n", p.Name, p.Percent, p.StartDate, p.EndDate)
				return nil
			})
		},
	})

	var experimentID string
	trend := &cobra.Command{
		Use:   "trend <metric>",
		Short: "Compare the last week of a metric with the week before",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				t, err := app.InsightCLI.Trend(ctx, user.UserID, args[0], experimentID)
				if err != nil {
					return err
				}
				printTrend(cmd, t)
				return nil
			})
		},
	}
	trend.Flags().StringVar(&experimentID, "experiment", "", "limit to one experiment")

	summary := &cobra.Command{
		Use:   "summary <experiment-id>",
		Short: "Summarize an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				s, err := app.InsightCLI.Summary(ctx, user.UserID, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]\nprogress: %.1f%%\ncompliance: %.1f%% (%d/%d days)\ndays logged: %d\n",
					s.Name, s.Status, s.Progress, s.Compliance, s.CompliantDays, s.CountedDays, s.DaysLogged)
				for _, t := range s.Trends {
					printTrend(cmd, t)
				}
				return nil
			})
		},
	}

	var render bool
	report := &cobra.Command{
		Use:   "report <experiment-id>",
		Short: "Write a markdown report for an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				out, err := app.InsightCLI.Report(ctx, user.UserID, args[0])
				if err != nil {
					return err
				}
				if render {
					if err := printMarkdown(cmd, out.Markdown); err != nil {
						return err
					}
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", out.Path)
				return nil
			})
		},
	}
	report.Flags().BoolVar(&render, "render", false, "also render the report in the terminal")

	insight.AddCommand(trend, summary, report)
	return insight
}

func printTrend(cmd *cobra.Command, t insightdto.TrendOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-14s avg=%.1f n=%d\n", t.Metric, t.Label, t.Average, len(t.Values))
}

func printMarkdown(cmd *cobra.Command, md string) error {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func newPluginCmd(c *cli) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Analyzer plugins"}
	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				plugins, err := app.PluginCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(plugins) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				for _, p := range plugins {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s capabilities=%s\n", p.Name, p.Version, p.Enabled, p.Binary, strings.Join(p.Capabilities, ","))
				}
				return nil
			})
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin binaries, checksums and handshake",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				results, err := app.PluginCLI.Doctor(ctx)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				failed := false
				for _, r := range results {
					ok := r.BinaryReachable && r.ChecksumValid && r.LifecycleOK
					marker := "OK"
					if !ok {
						marker = "FAIL"
						failed = true
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s binary=%t checksum=%t lifecycle=%t %s\n", marker, r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK, r.Error)
				}
				if failed {
					return fmt.Errorf("plugin doctor found failing checks")
				}
				return nil
			})
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "analyzers <plugin>",
		Short: "List the analyzers a plugin provides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				analyzers, err := app.PluginCLI.ListAnalyzers(ctx, args[0])
				if err != nil {
					return err
				}
				for _, a := range analyzers {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", a.ID, a.Title, a.Description)
				}
				return nil
			})
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "analyze <plugin> <analyzer> <experiment-id>",
		Short: "Run a plugin analyzer over an experiment's logs",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				out, err := app.PluginCLI.Analyze(ctx, plugindto.AnalyzeInput{
					PluginName:   args[0],
					AnalyzerID:   args[1],
					UserID:       user.UserID,
					ExperimentID: args[2],
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s/%s over %d logs: %s\n", out.PluginName, out.AnalyzerID, out.LogsSent, out.Summary)
				for _, i := range out.Insights {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s (%.2f)\n", i.Title, i.Detail, i.Value)
				}
				return nil
			})
		},
	})
	return plugin
}
