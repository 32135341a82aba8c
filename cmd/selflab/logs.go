package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"selflab/internal/bootstrap"
	accountdto "selflab/internal/modules/account/dto"
	dailylogdto "selflab/internal/modules/dailylog/dto"
	"selflab/internal/platform/date"
)

func newLogCmd(c *cli) *cobra.Command {
	logCmd := &cobra.Command{Use: "log", Short: "Daily check-ins"}

	var in dailylogdto.SaveLogInput
	var day string
	var done, missed []string
	save := &cobra.Command{
		Use:   "save --experiment <id>",
		Short: "Record or overwrite the log for a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := dayOrToday(day)
			if err != nil {
				return err
			}
			in.Date = d
			in.Compliance = complianceFlags(done, missed)
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				in.UserID = user.UserID
				out, err := app.LogCLI.SaveLog(ctx, in)
				if err != nil {
					return err
				}
				verb := "updated"
				if out.Created {
					verb = "saved"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s log for %s (%s)\n", verb, out.Date, out.ID)
				return nil
			})
		},
	}
	save.Flags().StringVar(&in.ExperimentID, "experiment", "", "experiment id")
	save.Flags().StringVar(&day, "date", "", "day YYYY-MM-DD (default today)")
	save.Flags().IntVar(&in.Mood, "mood", 0, "mood 1-5")
	save.Flags().IntVar(&in.Energy, "energy", 0, "energy 1-5")
	save.Flags().Float64Var(&in.SleepHours, "sleep", 0, "hours slept")
	save.Flags().IntVar(&in.SleepQuality, "sleep-quality", 0, "sleep quality 1-10")
	save.Flags().IntVar(&in.Stress, "stress", 0, "stress 1-10")
	save.Flags().Float64Var(&in.Weight, "weight", 0, "body weight")
	save.Flags().StringSliceVar(&done, "done", nil, "variables complied with")
	save.Flags().StringSliceVar(&missed, "missed", nil, "variables not complied with")
	save.Flags().StringVar(&in.Notes, "notes", "", "notes")

	var experimentID string
	show := &cobra.Command{
		Use:   "show --experiment <id> [--date <day>]",
		Short: "Show the log for a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := dayOrToday(day)
			if err != nil {
				return err
			}
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				out, err := app.LogCLI.GetLog(ctx, dailylogdto.GetLogInput{UserID: user.UserID, ExperimentID: experimentID, Date: d})
				if err != nil {
					return err
				}
				printLog(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	show.Flags().StringVar(&experimentID, "experiment", "", "experiment id")
	show.Flags().StringVar(&day, "date", "", "day YYYY-MM-DD (default today)")

	var from, to string
	list := &cobra.Command{
		Use:   "list [--experiment <id>] [--from <day>] [--to <day>]",
		Short: "List logs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromDate, err := parseDate(from)
			if err != nil {
				return err
			}
			toDate, err := parseDate(to)
			if err != nil {
				return err
			}
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				logs, err := app.LogCLI.ListLogs(ctx, dailylogdto.ListLogsInput{
					UserID:       user.UserID,
					ExperimentID: experimentID,
					From:         fromDate,
					To:           toDate,
				})
				if err != nil {
					return err
				}
				if len(logs) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no logs")
					return nil
				}
				rows := make([][]string, 0, len(logs))
				for _, l := range logs {
					rows = append(rows, []string{
						l.Date.String(), l.ExperimentID,
						fmt.Sprint(l.Mood), fmt.Sprint(l.Energy), fmt.Sprintf("%.1f", l.SleepHours),
						complianceSummary(l.Compliance),
					})
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"DATE", "EXPERIMENT", "MOOD", "ENERGY", "SLEEP", "COMPLIANCE"}, rows))
				return nil
			})
		},
	}
	list.Flags().StringVar(&experimentID, "experiment", "", "experiment id (default all)")
	list.Flags().StringVar(&from, "from", "", "first day YYYY-MM-DD")
	list.Flags().StringVar(&to, "to", "", "last day YYYY-MM-DD")

	logCmd.AddCommand(save, show, list)
	return logCmd
}

func dayOrToday(raw string) (date.Date, error) {
	d, err := parseDate(raw)
	if err != nil || !d.IsZero() {
		return d, err
	}
	return date.Of(time.Now()), nil
}

func complianceFlags(done, missed []string) map[string]bool {
	if len(done) == 0 && len(missed) == 0 {
		return nil
	}
	out := make(map[string]bool, len(done)+len(missed))
	for _, v := range done {
		out[strings.TrimSpace(v)] = true
	}
	for _, v := range missed {
		out[strings.TrimSpace(v)] = false
	}
	return out
}

func complianceSummary(c map[string]bool) string {
	if len(c) == 0 {
		return "-"
	}
	met := 0
	for _, ok := range c {
		if ok {
			met++
		}
	}
	return fmt.Sprintf("%d/%d", met, len(c))
}

func printLog(w io.Writer, l dailylogdto.LogOutput) {
	_, _ = fmt.Fprintf(w, "date: %s\nexperiment: %s\nmood: %d\nenergy: %d\nsleep: %.1fh (quality %d)\nstress: %d\n",
		l.Date, l.ExperimentID, l.Mood, l.Energy, l.SleepHours, l.SleepQuality, l.Stress)
	if l.Weight > 0 {
		_, _ = fmt.Fprintf(w, "weight: %.1f\n", l.Weight)
	}
	if len(l.Compliance) > 0 {
		keys := make([]string, 0, len(l.Compliance))
		for k := range l.Compliance {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			mark := "✗"
			if l.Compliance[k] {
				mark = "✓"
			}
			_, _ = fmt.Fprintf(w, "  %s %s\n", mark, k)
		}
	}
	if l.Notes != "" {
		_, _ = fmt.Fprintf(w, "notes: %s\n", l.Notes)
	}
}
