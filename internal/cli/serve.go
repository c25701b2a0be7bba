package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/livestock-atlas-go/internal/api"
	"github.com/jengzang/livestock-atlas-go/internal/database"
)

// NewServeCmd starts the HTTP API
func NewServeCmd() *cobra.Command {
	var warm bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp(cmd)
			if err != nil {
				return err
			}
			cfg, logger := app.Config, app.Logger
			defer logger.Sync() //nolint:errcheck

			svc, err := NewService(cfg, logger)
			if err != nil {
				return err
			}
			defer database.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if warm {
				if _, err := svc.Dataset(ctx); err != nil {
					logger.Warn("initial dataset load failed", zap.Error(err))
				}
			}

			router, stopRouter := api.SetupRouter(cfg, svc, logger)
			defer stopRouter()

			srv := &http.Server{
				Addr:    cfg.Server.Port,
				Handler: router,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("source", cfg.Source.Kind))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("failed to start server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&warm, "warm", true, "load the dataset before accepting requests")
	return cmd
}
