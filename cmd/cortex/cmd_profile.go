package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Proton-105/cortex-client/internal/backend"
)

var showRemote bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect or reset the profile stored on this device",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile and the backend override",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		p, ok := rt.profiles.Load(ctx)
		if !ok {
			fmt.Fprintln(out, "No profile stored on this device.")
		} else {
			fmt.Fprintf(out, "ID:       %s\n", p.ID)
			fmt.Fprintf(out, "Name:     %s\n", p.DisplayName)
			fmt.Fprintf(out, "Age:      %d\n", p.Age)
			fmt.Fprintf(out, "Created:  %s\n", p.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		}

		if showRemote && ok {
			rec, err := rt.client.GetOnboarding(ctx, p.ID)
			switch {
			case errors.Is(err, backend.ErrNotFound):
				fmt.Fprintln(out, "Backend:  not synced")
			case err != nil:
				return fmt.Errorf("fetch backend record: %w", err)
			default:
				fmt.Fprintf(out, "Backend:  #%d %s, %d\n", rec.ID, rec.DisplayName, rec.Age)
			}
		}

		override := rt.profiles.APIBase(ctx)
		if override == "" {
			override = "(none)"
		}
		fmt.Fprintf(out, "API base: %s (override: %s)\n", rt.client.BaseURL(ctx), override)
		return nil
	},
}

var profileClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		rt.profiles.Clear(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Profile cleared.")
		return nil
	},
}

var profileSetAPIBaseCmd = &cobra.Command{
	Use:   "set-api-base [url]",
	Short: "Override the backend base URL on this device; no argument removes the override",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		base := ""
		if len(args) == 1 {
			base = strings.TrimSpace(args[0])
		}
		if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return fmt.Errorf("api base must be an http or https URL: %q", base)
		}

		rt.profiles.SetAPIBase(cmd.Context(), base)
		fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s\n", rt.client.BaseURL(cmd.Context()))
		return nil
	},
}

func init() {
	profileShowCmd.Flags().BoolVar(&showRemote, "remote", false, "also fetch the backend copy of the profile")
	profileCmd.AddCommand(profileShowCmd, profileClearCmd, profileSetAPIBaseCmd)
}
