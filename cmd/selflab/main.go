package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"selflab/internal/bootstrap"
	accountdto "selflab/internal/modules/account/dto"
	"selflab/internal/platform/config"
	"selflab/internal/platform/date"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries the persistent flags shared by every command.
type cli struct {
	opts config.Options
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "selflab",
		Short:         "Personal self-experimentation tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.opts.DataDir, "data", "", "data directory (default ~/.selflab)")
	root.PersistentFlags().StringVar(&c.opts.ConfigPath, "config", "", "config file (default <data>/selflab.yaml)")
	root.PersistentFlags().StringVar(&c.opts.Storage, "storage", "", "storage backend: file|sqlite|memory|none")
	root.PersistentFlags().StringVar(&c.opts.LogMode, "log", "", "log mode: off|prod|dev")

	root.AddCommand(newTUICmd(c))
	root.AddCommand(newAccountCmds(c)...)
	root.AddCommand(newExperimentCmd(c))
	root.AddCommand(newLogCmd(c))
	root.AddCommand(newTemplateCmd(c))
	root.AddCommand(newInsightCmd(c))
	root.AddCommand(newPluginCmd(c))
	return root
}

// withApp builds the application for one command and closes it afterwards.
func (c *cli) withApp(fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.Load(c.opts)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(context.Background(), app)
}

// withUser is withApp for commands that act on the signed-in user.
func (c *cli) withUser(fn func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error) error {
	return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
		user, err := app.AccountCLI.Current(ctx)
		if err != nil {
			return fmt.Errorf("%w (run `selflab login` or `selflab demo`)", err)
		}
		return fn(ctx, app, user)
	})
}

func newTUICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the selflab terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.withApp(func(_ context.Context, app *bootstrap.App) error {
				return bootstrap.RunTUI(app)
			})
		},
	}
}

func newAccountCmds(c *cli) []*cobra.Command {
	var email, password, name string
	register := &cobra.Command{
		Use:   "register --email <email> --password <password> --name <name>",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				user, err := app.AccountCLI.Register(ctx, email, password, name)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s <%s> id=%s\n", user.Name, user.Email, user.ID)
				return nil
			})
		},
	}
	register.Flags().StringVar(&email, "email", "", "email address")
	register.Flags().StringVar(&password, "password", "", "password (min 6 characters)")
	register.Flags().StringVar(&name, "name", "", "display name")

	login := &cobra.Command{
		Use:   "login --email <email> --password <password>",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				s, err := app.AccountCLI.Login(ctx, email, password)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s>\n", s.Name, s.Email)
				return nil
			})
		},
	}
	login.Flags().StringVar(&email, "email", "", "email address")
	login.Flags().StringVar(&password, "password", "", "password")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				if err := app.AccountCLI.Logout(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withUser(func(_ context.Context, _ *bootstrap.App, user accountdto.SessionOutput) error {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> id=%s since=%s\n", user.Name, user.Email, user.UserID, user.SignedInAt.Format("2006-01-02T15:04:05Z07:00"))
				return nil
			})
		},
	}

	demo := &cobra.Command{
		Use:   "demo",
		Short: "Sign in as the demo account, creating it if needed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				s, err := app.AccountCLI.SetupDemo(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s>\n", s.Name, s.Email)
				return nil
			})
		},
	}

	return []*cobra.Command{register, login, logout, whoami, demo, newPasswordCmd(c)}
}

func newPasswordCmd(c *cli) *cobra.Command {
	password := &cobra.Command{Use: "password", Short: "Password management"}

	var email string
	reset := &cobra.Command{
		Use:   "reset --email <email>",
		Short: "Request a password reset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.AccountCLI.RequestPasswordReset(ctx, email)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Message)
				return nil
			})
		},
	}
	reset.Flags().StringVar(&email, "email", "", "email address")

	var oldPassword, newPassword string
	change := &cobra.Command{
		Use:   "change --old <password> --new <password>",
		Short: "Change the signed-in user's password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withUser(func(ctx context.Context, app *bootstrap.App, user accountdto.SessionOutput) error {
				if err := app.AccountCLI.ChangePassword(ctx, user.UserID, oldPassword, newPassword); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "password changed")
				return nil
			})
		},
	}
	change.Flags().StringVar(&oldPassword, "old", "", "current password")
	change.Flags().StringVar(&newPassword, "new", "", "new password")

	password.AddCommand(reset, change)
	return password
}

// parseDate reads an optional YYYY-MM-DD flag; empty yields the zero Date.
func parseDate(raw string) (date.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return date.Date{}, nil
	}
	return date.Parse(raw)
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().Headers(headers...).Rows(rows...).String()
}
