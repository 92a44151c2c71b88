package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/richfrem/quoteagent"
	httpadapter "github.com/richfrem/quoteagent/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the quote agent HTTP API. Sessions, submissions and authentication
are configured from the environment (see .env.example).`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		backend, cfg, logger := loadBackend(ctx, cmd, false)
		defer backend.Close()

		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = ":" + strings.TrimPrefix(port, ":")
		}

		opts := []httpadapter.Option{
			httpadapter.WithLogger(logger),
			httpadapter.WithMetricsHandler(backend.Metrics.Handler()),
		}
		if backend.Identity != nil {
			opts = append(opts, httpadapter.WithIdentityProvider(backend.Identity))
		} else {
			logger.Warn("SUPABASE_URL not set, API runs without authentication")
		}
		handler, err := httpadapter.NewHandler(backend.Agent, opts...)
		if err != nil {
			fmt.Printf("Error building HTTP handler: %v\n", err)
			os.Exit(1)
		}

		sweeperDone := backend.Agent.StartSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.MaxIdle)

		srv := &http.Server{
			Addr:              cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting quote agent server", "address", srv.Addr, "version", strings.TrimSpace(quoteagent.Version))
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			logger.Error("Server error", "error", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())
			cancel()

			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "error", err)
				}
			}
			<-sweeperDone
			logger.Info("Quote agent server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (defaults to PORT or 8080)")
}
