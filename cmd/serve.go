package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/modeldocs/portal/internal/catalog"
	"github.com/modeldocs/portal/internal/config"
	"github.com/modeldocs/portal/internal/handlers"
	"github.com/modeldocs/portal/internal/identity"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		Long: `Starts the portal HTTP API on the specified port.

The API serves filtered article and notebook listings, tag suggestions,
document analysis for upload pre-fill, and draft submission.`,
		Example: `  # Start server on default port 8888
  portal serve

  # Start server on custom port
  portal serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			ident, err := identity.Open(cfg.IdentityDBPath)
			if err != nil {
				return err
			}
			defer ident.Close()

			client := catalog.NewClient(cfg.CatalogURL)
			handler := handlers.New(cfg, client, ident)

			// Warm the cached lookups; a failed item fetch is not fatal at
			// startup, listing requests refetch anyway.
			if err := handler.Articles().LoadInitial(cmd.Context()); err != nil {
				slog.Warn("Initial article load failed", "error", err)
			}
			if err := handler.Notebooks().LoadInitial(cmd.Context()); err != nil {
				slog.Warn("Initial notebook load failed", "error", err)
			}

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/articles", handler.HandleArticles)
			mux.HandleFunc("/api/notebooks", handler.HandleNotebooks)
			mux.HandleFunc("/api/tags/suggest", handler.HandleTagSuggest)
			mux.HandleFunc("/api/analyze", handler.HandleAnalyze)
			mux.HandleFunc("/api/drafts", handler.HandleDrafts)
			mux.HandleFunc("/api/drafts/", handler.HandleDraftDetail)
			mux.HandleFunc("/api/download/", handler.HandleDownload)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Portal API available", "addr", addr, "url", "http://localhost"+addr)
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

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")

	return cmd
}
