package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/easybake/internal/cli"
	"github.com/aretw0/easybake/internal/metrics"
	httpAdapter "github.com/aretw0/easybake/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes the kitchen over a JSON API with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		seed, _ := cmd.Flags().GetInt("seed")

		collector := metrics.New()
		k, closeStore, err := cli.NewKitchen(cfg, logger, collector.Hooks(), collector.StoreMiddleware())
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if seed > 0 {
			if err := k.Seed(ctx, seed); err != nil {
				return err
			}
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           httpAdapter.NewHandler(k, httpAdapter.WithMetrics(collector), httpAdapter.WithLogger(logger)),
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting easybake server", "addr", srv.Addr, "store", cfg.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-ctx.Done():
			logger.Info("Start shutdown...", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("easybake server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().Int("seed", 0, "Stock both ledgers for this many cakes at startup")
}
