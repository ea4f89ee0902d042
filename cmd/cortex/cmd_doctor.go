package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Proton-105/cortex-client/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local store and the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		checker := health.NewChecker(rt.log.Logger, 5*time.Second)
		checker.AddCheck("store ("+rt.cfg.Storage.Driver+")", health.NewStoreChecker(rt.store))
		checker.AddCheck("backend ("+rt.client.BaseURL(cmd.Context())+")", health.NewBackendChecker(rt.client))

		failed := false
		for _, r := range checker.Check(cmd.Context()) {
			status := "ok"
			if !r.OK() {
				status = "FAIL: " + r.Err.Error()
				failed = true
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-8s %s\n", r.Name, r.Duration.Round(time.Millisecond), status)
		}

		if failed {
			return errors.New("some checks failed")
		}
		return nil
	},
}
