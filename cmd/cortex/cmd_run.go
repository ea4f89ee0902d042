package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Proton-105/cortex-client/internal/app"
	"github.com/Proton-105/cortex-client/internal/backend"
	"github.com/Proton-105/cortex-client/internal/console"
	"github.com/Proton-105/cortex-client/internal/health"
	"github.com/Proton-105/cortex-client/internal/lifecycle"
	"github.com/Proton-105/cortex-client/internal/onboarding"
	"github.com/Proton-105/cortex-client/internal/session"
	"github.com/Proton-105/cortex-client/pkg/graceful"
	"github.com/Proton-105/cortex-client/pkg/logger"
	"github.com/Proton-105/cortex-client/pkg/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive client shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

func runShell(cmd *cobra.Command) error {
	ctx := cmd.Context()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	log := rt.log.Logger
	view := console.NewTerminal(cmd.OutOrStdout(), rt.messages)
	dispatcher := backend.NewDispatcher(log, rt.errs, rt.cfg.Backend.NotifyTimeout)

	clockOpts := []session.Option{
		session.WithLogger(log),
		session.WithRecorder(metrics.SessionRecorder{}),
	}
	if rt.cfg.Backend.UploadSession {
		uploader := backend.NewSessionUploader(rt.client, dispatcher, rt.cfg.Backend.Username, rt.cfg.Backend.Password, log)
		clockOpts = append(clockOpts, session.WithRecorder(uploader))
	}

	flow, err := onboarding.NewFlow(onboarding.Deps{
		Store:      rt.profiles,
		View:       view,
		Notifier:   rt.client,
		Dispatcher: dispatcher,
		Messages:   rt.messages,
		Errors:     rt.errs,
		Recorder:   metrics.RecordStateTransition,
		Log:        log,
	})
	if err != nil {
		return err
	}

	shell, err := app.New(app.Deps{
		Flow:       flow,
		Clock:      session.NewClock(clockOpts...),
		View:       view,
		Background: dispatcher,
		Log:        log,
	})
	if err != nil {
		return err
	}
	rt.shutdown.Register("shell", shell.Close)

	if rt.cfg.Metrics.Enabled {
		startMetricsServer(ctx, rt)
	}

	if err := shell.Run(ctx); err != nil {
		return err
	}

	stateDispatcher := console.NewDispatcher(shell, log)
	router := console.NewRouter(stateDispatcher, log)
	router.Use(console.CorrelationMiddleware())
	router.Use(console.LoggingMiddleware(log))
	router.Use(console.ErrorHandlingMiddleware(rt.errs, view))
	router.Use(console.RecoveryMiddleware(log))
	console.RegisterCommands(router, stateDispatcher, shell, view, rt.messages)

	err = console.New(router, cmd.InOrStdin(), log).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// startMetricsServer serves /metrics and the probes until the shell exits.
func startMetricsServer(ctx context.Context, rt *services) {
	checker := health.NewChecker(rt.log.Logger, 2*time.Second)
	checker.AddCheck("store", health.NewStoreChecker(rt.store))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	lifecycle.NewProbes(rt.log.Logger, checker).Register(mux)

	srvCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	srv := graceful.NewServer(rt.log.Logger, rt.cfg.Metrics.Addr, mux, 5*time.Second)

	go func() {
		defer close(done)
		if err := srv.ListenAndServe(srvCtx); err != nil {
			rt.log.Error("metrics server stopped", logger.Err(err))
		}
	}()

	rt.shutdown.Register("metrics", func(ctx context.Context) error {
		cancel()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
