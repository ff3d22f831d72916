package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange admin credentials for an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.client()
			token, err := c.Login(commandContext(cmd), app.Email, app.Password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Format == FormatJSON {
				return writeJSON(cmd, map[string]any{"data": token})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
			footer(cmd.ErrOrStderr(), "%s token, valid for %ds; export it as ADMINCTL_TOKEN", token.TokenType, token.ExpiresIn)
			return nil
		},
	}
	return cmd
}

func newSemestersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semesters",
		Short: "List semesters available for course assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			semesters, err := app.client().Semesters(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Format == FormatJSON {
				return writeJSON(cmd, map[string]any{"data": semesters})
			}
			t := &table{headers: []string{"ID", "Name", "Starts", "Ends"}}
			for _, s := range semesters {
				t.add(strconv.FormatInt(s.ID, 10), s.Name, s.StartDate, s.EndDate)
			}
			t.render(cmd.OutOrStdout())
			return nil
		},
	}
	return cmd
}
