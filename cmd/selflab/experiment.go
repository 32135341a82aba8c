package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"selflab/internal/bootstrap"
	accountdto "selflab/internal/modules/account/dto"
	experimentdto "selflab/internal/modules/experiment/dto"
)

func newExperimentCmd(c *cli) *cobra.Command {
	experiment := &cobra.Command{Use: "experiment", Aliases: []string{"exp"}, Short: "Experiment lifecycle"}

	var in experimentdto.CreateInput
	var start, end string
	create := &cobra.Command{
		Use:   "create --name <name> (--end <date> | --days <n>)",
		Short: "Create an experiment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			startDate, err := parseDate(start)
			if err != nil {
				return err
			}
			endDate, err := parseDate(end)
			if err != nil {
				return err
			}
			in.StartDate, in.EndDate = startDate, endDate
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				in.UserID = user.UserID
				out, err := app.ExperimentCLI.Create(ctx, in)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) %s → %s\n", out.Name, out.ID, out.StartDate, out.EndDate)
				return nil
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "experiment name")
	create.Flags().StringVar(&in.Hypothesis, "hypothesis", "", "what you expect to happen")
	create.Flags().StringVar(&in.Description, "description", "", "description")
	create.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD (default today)")
	create.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD")
	create.Flags().IntVar(&in.DurationDays, "days", 0, "duration in days when --end is omitted")
	create.Flags().StringSliceVar(&in.Variables, "variables", nil, "independent variables to comply with")
	create.Flags().StringSliceVar(&in.Metrics, "metrics", nil, "tracked metrics")
	create.Flags().StringVar(&in.Notes, "notes", "", "notes")

	var startFrom string
	fromTemplate := &cobra.Command{
		Use:   "start <template-id>",
		Short: "Start an experiment from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDate(startFrom)
			if err != nil {
				return err
			}
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				out, err := app.ExperimentCLI.CreateFromTemplate(ctx, experimentdto.FromTemplateInput{
					UserID:     user.UserID,
					TemplateID: args[0],
					StartDate:  startDate,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started %s (%s) %s → %s\n", out.Name, out.ID, out.StartDate, out.EndDate)
				return nil
			})
		},
	}
	fromTemplate.Flags().StringVar(&startFrom, "start", "", "start date YYYY-MM-DD (default today)")

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List your experiments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				exps, err := app.ExperimentCLI.List(ctx, user.UserID, status)
				if err != nil {
					return err
				}
				if len(exps) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no experiments")
					return nil
				}
				rows := make([][]string, 0, len(exps))
				for _, e := range exps {
					rows = append(rows, []string{e.ID, e.Name, e.Status, e.StartDate.String(), e.EndDate.String()})
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "NAME", "STATUS", "START", "END"}, rows))
				return nil
			})
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status: active|paused|completed")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				e, err := app.ExperimentCLI.Get(ctx, user.UserID, args[0])
				if err != nil {
					return err
				}
				printExperiment(cmd.OutOrStdout(), e)
				return nil
			})
		},
	}

	newStatus := &cobra.Command{
		Use:   "status <id> <active|paused|completed>",
		Short: "Change an experiment's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				e, err := app.ExperimentCLI.SetStatus(ctx, user.UserID, args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", e.Name, e.Status)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an experiment and its daily logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				out, err := app.ExperimentCLI.Delete(ctx, user.UserID, args[0])
				if err != nil {
					return err
				}
				if !out.Deleted {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing deleted")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s and %d logs\n", args[0], out.LogsRemoved)
				return nil
			})
		},
	}

	experiment.AddCommand(create, fromTemplate, list, show, newUpdateCmd(c), newStatus, del)
	return experiment
}

func newUpdateCmd(c *cli) *cobra.Command {
	var name, hypothesis, description, start, end, notes string
	var variables, metrics []string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := experimentdto.UpdateInput{ExperimentID: args[0]}
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("hypothesis") {
				in.Hypothesis = &hypothesis
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("notes") {
				in.Notes = &notes
			}
			if flags.Changed("start") {
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				in.StartDate = &d
			}
			if flags.Changed("end") {
				d, err := parseDate(end)
				if err != nil {
					return err
				}
				in.EndDate = &d
			}
			if flags.Changed("variables") {
				in.Variables = variables
			}
			if flags.Changed("metrics") {
				in.Metrics = metrics
			}
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				in.UserID = user.UserID
				e, err := app.ExperimentCLI.Update(ctx, in)
				if err != nil {
					return err
				}
				printExperiment(cmd.OutOrStdout(), e)
				return nil
			})
		},
	}
	update.Flags().StringVar(&name, "name", "", "experiment name")
	update.Flags().StringVar(&hypothesis, "hypothesis", "", "hypothesis")
	update.Flags().StringVar(&description, "description", "", "description")
	update.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD")
	update.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD")
	update.Flags().StringSliceVar(&variables, "variables", nil, "independent variables")
	update.Flags().StringSliceVar(&metrics, "metrics", nil, "tracked metrics")
	update.Flags().StringVar(&notes, "notes", "", "notes")
	return update
}

func printExperiment(w io.Writer, e experimentdto.ExperimentOutput) {
	_, _ = fmt.Fprintf(w, "id: %s\nname: %s\nstatus: %s\ndates: %s → %s (%d days)\n", e.ID, e.Name, e.Status, e.StartDate, e.EndDate, e.DurationDays)
	if e.Hypothesis != "" {
		_, _ = fmt.Fprintf(w, "hypothesis: %s\n", e.Hypothesis)
	}
	if e.Description != "" {
		_, _ = fmt.Fprintf(w, "description: %s\n", e.Description)
	}
	if len(e.Variables) > 0 {
		_, _ = fmt.Fprintf(w, "variables: %s\n", strings.Join(e.Variables, ", "))
	}
	if len(e.Metrics) > 0 {
		_, _ = fmt.Fprintf(w, "metrics: %s\n", strings.Join(e.Metrics, ", "))
	}
	if e.TemplateID != "" {
		_, _ = fmt.Fprintf(w, "template: %s\n", e.TemplateID)
	}
	if e.Notes != "" {
		_, _ = fmt.Fprintf(w, "notes: %s\n", e.Notes)
	}
}
