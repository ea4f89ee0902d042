package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Proton-105/cortex-client/internal/backend"
)

var (
	dashUser     string
	dashPassword string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Read the account, users and sessions from the backend",
	Long: `Logs in with the password grant and lists backend records.

Credentials come from --username/--password, falling back to backend.username and
backend.password in the config (or CORTEX_BACKEND_USERNAME / CORTEX_BACKEND_PASSWORD).`,
}

var dashboardUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List backend users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, tok, err := dashboardLogin(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		users, err := rt.client.ListUsers(cmd.Context(), tok)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\n", u.ID, u.Email)
		}
		return w.Flush()
	},
}

var dashboardSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List the sessions of the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, tok, err := dashboardLogin(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		sessions, err := rt.client.ListSessions(cmd.Context(), tok)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tMOOD")
		for _, s := range sessions {
			d := time.Duration(s.DurationSeconds) * time.Second
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.ID, s.StartedAt.Local().Format(time.DateTime), d, s.Mood)
		}
		return w.Flush()
	},
}

var dashboardMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, tok, err := dashboardLogin(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		me, err := rt.client.Me(cmd.Context(), tok)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ID:    %d\nEmail: %s\n", me.ID, me.Email)
		return nil
	},
}

func dashboardLogin(cmd *cobra.Command) (*services, backend.Token, error) {
	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return nil, backend.Token{}, err
	}

	user, pass := dashUser, dashPassword
	if user == "" {
		user = rt.cfg.Backend.Username
	}
	if pass == "" {
		pass = rt.cfg.Backend.Password
	}

	tok, err := rt.client.Login(cmd.Context(), user, pass)
	if err != nil {
		rt.close()
		if errors.Is(err, backend.ErrUnauthorized) {
			return nil, backend.Token{}, errors.New("login failed: invalid credentials")
		}
		return nil, backend.Token{}, err
	}

	if tok.Subject != "" {
		fmt.Fprintf(os.Stderr, "signed in as %s", tok.Subject)
		if !tok.ExpiresAt.IsZero() {
			fmt.Fprintf(os.Stderr, " until %s", tok.ExpiresAt.Local().Format(time.DateTime))
		}
		fmt.Fprintln(os.Stderr)
	}

	return rt, tok, nil
}

func init() {
	dashboardCmd.PersistentFlags().StringVarP(&dashUser, "username", "u", "", "backend username (email)")
	dashboardCmd.PersistentFlags().StringVarP(&dashPassword, "password", "p", "", "backend password")
	dashboardCmd.AddCommand(dashboardMeCmd, dashboardUsersCmd, dashboardSessionsCmd)
}
