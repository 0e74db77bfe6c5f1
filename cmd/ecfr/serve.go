package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ecfr_analytics/internal/analytics"
	"ecfr_analytics/internal/api"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.cache()
			if err != nil {
				return err
			}
			defer store.Close()

			engine, err := analytics.Open(ctx, a.client(), store, a.engineOptions()...)
			if err != nil {
				return err
			}

			if a.cfg.Production() {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr: a.cfg.Addr(),
				Handler: api.NewRouter(engine, api.Options{
					APIKey:           a.cfg.Server.APIKey,
					Logger:           a.logger,
					DefaultStartDate: a.cfg.Analytics.DefaultStartDate,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.logger.Info("listening", zap.String("addr", srv.Addr), zap.String("cache", store.Backend()))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				a.logger.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}
