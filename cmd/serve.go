package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/bibliobot/internal/catalog"
	"github.com/lehigh-university-libraries/bibliobot/internal/config"
	"github.com/lehigh-university-libraries/bibliobot/internal/dispatch"
	"github.com/lehigh-university-libraries/bibliobot/internal/handlers"
	"github.com/lehigh-university-libraries/bibliobot/internal/providers"
	"github.com/spf13/cobra"
)

// loadDispatcher reads the configuration and wires the provider client into a dispatcher
func loadDispatcher(cmd *cobra.Command, requireToken bool) (*dispatch.Dispatcher, *config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(requireToken); err != nil {
		return nil, nil, err
	}

	for _, p := range cfg.Providers {
		if p.Secret == "" {
			slog.Warn("Provider has no API secret configured", "provider", p.Name, "env", p.SecretEnv)
		}
	}

	client := catalog.NewClient(cfg.Timeout)
	return dispatch.New(providers.NewRegistry(cfg.Providers), client), cfg, nil
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the slash command webhook server",
		Long: `Starts the webhook server on the specified port.

POST / accepts slash command invocations and replies with JSON.
GET / serves a short landing page and GET /healthcheck answers OK.

SLACK_TOKEN must be set to the shared secret configured for the slash commands.`,
		Example: `  # Start server on default port 8888
  bibliobot serve

  # Start server on custom port with extra providers
  bibliobot serve --port 3000 --config providers.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher, cfg, err := loadDispatcher(cmd, true)
			if err != nil {
				return err
			}
			handler := handlers.New(dispatcher, cfg.SlackToken)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/", handler.HandleRoot)
			mux.HandleFunc("/healthcheck", handler.HandleHealthcheck)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Bibliobot webhook listening", "addr", addr, "providers", len(cfg.Providers), "timeout", cfg.Timeout)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
