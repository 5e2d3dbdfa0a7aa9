package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/aretw0/stockcheck/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes conversations, the catalog and the report as a JSON API over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		rt, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		cfg := rt.Config
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		opts := []httpadapter.Option{httpadapter.WithLogger(logger)}
		if cfg.HTTP.Metrics {
			opts = append(opts, httpadapter.WithMetrics(promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})))
		}

		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpadapter.NewHandler(rt.App, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)

		// Expired conversations are swept until shutdown.
		g.Go(func() error {
			rt.App.Sessions().Run(gctx, cfg.Sessions.Sweep)
			return nil
		})

		g.Go(func() error {
			logger.Info("Starting stockcheck server", "addr", srv.Addr, "storage", cfg.Storage.Driver)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("stockcheck server stopped gracefully")
			return nil
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides http.addr)")
}
