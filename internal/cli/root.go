// Package cli implements adminctl, the console for the academic admin API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/schooladmin/internal/console/client"
	"github.com/yigit/schooladmin/internal/console/notify"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/helpers"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

type App struct {
	Server   string
	Token    string
	Email    string
	Password string
	Format   string
	Timeout  string
	Verbose  bool

	logger zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "adminctl",
		Short:         "Manage subjects, instructors and course assignments",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Sign in and keep the token for later commands
  export ADMINCTL_TOKEN=$(adminctl login --email admin@school.edu --password secret --format json | jq -r .data.accessToken)

  # Second page of instructors, newest born first
  adminctl instructors list --sort dateOfBirth --order desc --page 2

  # Assign an instructor
  adminctl courses create --subject 3 --instructor 7 --semester 2
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch app.Format {
		case FormatTable, FormatJSON:
		default:
			return writeErr(cmd, fmt.Errorf("unknown format %q (table|json)", app.Format))
		}
		level := logger.DisabledLevel
		if app.Verbose {
			level = logger.DebugLevel
		}
		app.logger = logger.Configure(logger.Config{Level: level, Pretty: true, Output: cmd.ErrOrStderr()})
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("ADMINCTL_SERVER", "http://localhost:8080"), "API server base URL")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("ADMINCTL_TOKEN", ""), "Bearer token for write operations")
	cmd.PersistentFlags().StringVar(&app.Email, "email", envOr("ADMINCTL_EMAIL", ""), "Admin email, used to sign in when no token is set")
	cmd.PersistentFlags().StringVar(&app.Password, "password", envOr("ADMINCTL_PASSWORD", ""), "Admin password")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ADMINCTL_FORMAT", FormatTable), "Output format (table|json)")
	cmd.PersistentFlags().StringVar(&app.Timeout, "timeout", envOr("ADMINCTL_TIMEOUT", "10s"), "Per-request timeout")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log requests to stderr")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newSemestersCmd(app))
	cmd.AddCommand(newSubjectsCmd(app))
	cmd.AddCommand(newInstructorsCmd(app))
	cmd.AddCommand(newCoursesCmd(app))

	return cmd
}

func (app *App) client() *client.Client {
	return client.New(app.Server,
		client.WithTimeout(helpers.ParseDuration(app.Timeout, client.DefaultTimeout)),
		client.WithToken(app.Token),
		client.WithLogger(app.logger.With().Str("component", "client").Logger()),
	)
}

// authenticate signs in with the configured credentials unless a token is already set.
func (app *App) authenticate(ctx context.Context, c *client.Client) error {
	if c.Token() != "" || app.Email == "" {
		return nil
	}
	_, err := c.Login(ctx, app.Email, app.Password)
	return err
}

// sink prints notices for humans and, with --verbose, logs them too.
func (app *App) sink(cmd *cobra.Command) notify.Sink {
	out := notify.NewWriterSink(cmd.ErrOrStderr())
	if !app.Verbose {
		return out
	}
	return notify.Multi(out, notify.NewLogSink(app.logger))
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	msg := err.Error()
	if field := apperrors.FieldOf(err); field != "" {
		msg = field + ": " + msg
	}
	if apperrors.KindOf(err) == apperrors.KindAuthorization {
		msg += " (sign in with `adminctl login` and set ADMINCTL_TOKEN)"
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
