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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stellarburger/internal/monitoring"
	"stellarburger/internal/sandbox"
)

func (c *cli) sandboxCmd() *cobra.Command {
	var (
		port     int
		cookTime time.Duration
	)
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local storefront backend",
		Long: `Starts a storefront backend on sqlite (or postgres) with the same REST and
websocket API as production. Pending orders are reported done after --cook.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == 0 {
				port = c.cfg.Sandbox.Port
			}
			return c.runSandbox(cmd.Context(), port, cookTime)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "API server port (default from config)")
	cmd.Flags().DurationVar(&cookTime, "cook", 15*time.Second, "Time an order stays in progress")
	return cmd
}

func (c *cli) runSandbox(parent context.Context, port int, cookTime time.Duration) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !c.cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := sandbox.OpenDB(c.cfg.Sandbox.Driver, c.cfg.Sandbox.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	monitor := monitoring.NewMonitor()
	srv, err := sandbox.NewServer(sandbox.Options{
		DB:        db,
		Secret:    []byte(c.cfg.Sandbox.JWTSecret),
		AccessTTL: c.cfg.Sandbox.AccessTTL,
		CookTime:  cookTime,
		Monitor:   monitor,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	servers := []*http.Server{{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: srv.Router(),
	}}
	if c.cfg.Metrics.Enabled {
		metricsRouter := gin.New()
		metricsRouter.GET(c.cfg.Metrics.Path, gin.WrapH(monitor.Handler()))
		servers = append(servers, &http.Server{
			Addr:    fmt.Sprintf(":%d", c.cfg.Metrics.Port),
			Handler: metricsRouter,
		})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv.RunKitchen(ctx, time.Second)
		return nil
	})
	for _, server := range servers {
		server := server
		g.Go(func() error {
			c.logger.Info("starting server", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", server.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		c.logger.Info("shutting down servers")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Close()
		for _, server := range servers {
			if err := server.Shutdown(shutdownCtx); err != nil {
				c.logger.Warn("server shutdown error", zap.String("addr", server.Addr), zap.Error(err))
			}
		}
		return nil
	})
	return g.Wait()
}
