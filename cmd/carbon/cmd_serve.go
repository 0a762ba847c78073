package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/xraph/carbon"
	"github.com/xraph/carbon/api"
	audithook "github.com/xraph/carbon/audit_hook"
	"github.com/xraph/carbon/observability"
	"github.com/xraph/carbon/observability/prom"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr         string
		auditQueries bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		Long:  "Starts the HTTP API with /metrics for Prometheus scraping.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}
			return a.serve(cmd.Context(), auditQueries)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides config")
	cmd.Flags().BoolVar(&auditQueries, "audit-queries", false, "Write aggregate queries to the audit log")

	return cmd
}

func (a *app) serve(ctx context.Context, auditQueries bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	auditOpts := []audithook.Option{audithook.WithLogger(a.logger)}
	if auditQueries {
		auditOpts = append(auditOpts, audithook.WithQueries())
	}

	l, err := a.openLedger(ctx,
		carbon.WithPlugin(observability.NewMetricsExtension(prom.NewFactory(reg))),
		carbon.WithPlugin(audithook.New(a.auditRecorder(), auditOpts...)),
	)
	if err != nil {
		return err
	}
	defer a.stopLedger(l)

	router := mux.NewRouter().UseEncodedPath()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.PathPrefix(a.cfg.HTTP.BasePath).Handler(api.NewHandler(l, a.cfg.HTTP.BasePath,
		api.WithLogger(a.logger),
		api.WithAccountHeader(a.cfg.HTTP.AccountHeader),
	))

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       a.cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: a.cfg.HTTP.ReadTimeout,
		WriteTimeout:      a.cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("carbon api listening",
			"addr", srv.Addr,
			"base_path", a.cfg.HTTP.BasePath,
			"backend", a.cfg.Store.Backend,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down carbon api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// auditRecorder writes audit events to the logger.
func (a *app) auditRecorder() audithook.Recorder {
	return audithook.RecorderFunc(func(ctx context.Context, evt *audithook.AuditEvent) error {
		level := slog.LevelInfo
		switch evt.Severity {
		case audithook.SeverityWarning:
			level = slog.LevelWarn
		case audithook.SeverityError:
			level = slog.LevelError
		}
		a.logger.Log(ctx, level, "audit",
			"action", evt.Action,
			"account", evt.Account,
			"resource_id", evt.ResourceID,
			"outcome", evt.Outcome,
			"reason", evt.Reason,
		)
		return nil
	})
}
