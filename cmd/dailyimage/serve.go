package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dailyimage/pkg/config"
	"dailyimage/pkg/daily"
	"dailyimage/pkg/logger"
	"dailyimage/pkg/notifier"
	"dailyimage/pkg/scheduler"
	"dailyimage/pkg/server"
	"dailyimage/pkg/tasks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

var (
	serveHTTP bool
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "常驻运行：按 cron 定时生成，并可提供 HTTP 接口",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if serveHTTP {
			cfg.Server.Enabled = true
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "启用 HTTP 接口（覆盖 server.enabled）")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP 监听端口（覆盖 server.port）")
}

// errNothingToServe is returned when both the scheduler and the HTTP server are disabled
var errNothingToServe = errors.New("scheduler and server are both disabled")

// runServe runs the scheduler and/or HTTP server until SIGINT/SIGTERM
func runServe(parent context.Context, cfg *config.Config) error {
	if !cfg.Scheduler.Enabled && !cfg.Server.Enabled {
		return errNothingToServe
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := daily.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	taskMgr := tasks.NewTaskManager(ctx, gen, notifier.FromConfig(cfg))
	errCh := make(chan error, 2)

	var sched *scheduler.TaskScheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.NewTaskScheduler(ctx, cfg.Scheduler, loc, taskMgr)
		if err != nil {
			return err
		}
		go func() { errCh <- sched.Start() }()
	}

	var httpServer *server.HTTPServer
	if cfg.Server.Enabled {
		httpServer = server.NewHTTPServer(ctx, &server.Config{
			Address:         cfg.Server.Address,
			Port:            cfg.Server.Port,
			RenderRateLimit: cfg.Server.RenderRateLimit,
			RenderBurst:     cfg.Server.RenderBurst,
			JPEGQuality:     cfg.Generator.JPEGQuality,
			Development:     cfg.App.Environment != "production",
		}, gen, taskMgr)
		if sched != nil {
			httpServer.SetScheduler(sched)
		}
		go func() { errCh <- httpServer.Start() }()
	}

	logger.Info("dailyimage serve started",
		zap.Bool("scheduler", sched != nil),
		zap.Bool("http", httpServer != nil),
		zap.String("version", version))

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("Component stopped unexpectedly", zap.Error(runErr))
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if sched != nil {
		if err := sched.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("scheduler shutdown: %w", err))
		}
	}
	if err := taskMgr.Wait(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("waiting for tasks: %w", err))
	}

	logger.Info("dailyimage serve stopped")
	return errors.Join(append([]error{runErr}, errs...)...)
}
