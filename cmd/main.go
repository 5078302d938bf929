// @title                       dozectl API
// @version                     1.0
// @description                 Drives Android devices in and out of doze idle mode and records verified transitions.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "controlling_doze/docs"
	"controlling_doze/internal/config"
	"controlling_doze/internal/device"
	"controlling_doze/internal/doze"
	"controlling_doze/internal/handlers"
	"controlling_doze/internal/logger"
	"controlling_doze/internal/metrics"
	"controlling_doze/internal/poller"
	"controlling_doze/internal/repository"
	"controlling_doze/internal/repository/db"
	"controlling_doze/internal/server"
	"controlling_doze/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configs/config.yml + DOZE_* env
	cfg, err := config.Load("configs")
	if err != nil {
		logger.New(logger.Config{}).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	// open DB
	sqlDB, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DBPath)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	recorder := metrics.NewPrometheusRecorder(nil)
	repos := repository.NewRepository(sqlDB)
	pool := device.NewPool(device.PoolConfig{
		ADBPath:     cfg.ADBPath,
		ADBTimeout:  cfg.ADBTimeout,
		SettleTicks: cfg.SimSettleTicks,
	})
	services := service.NewService(repos, service.Deps{
		Pool:     pool,
		Policy:   doze.NewPolicy(cfg.MaxAttempts, cfg.RetryDelay),
		Recorder: recorder,
		Log:      log,
		Auth:     service.AuthConfig{SigningKey: cfg.SigningKey, TokenTTL: cfg.TokenTTL},
	})
	apiHandler := handlers.NewHandler(services, log, handlers.WithMetricsHandler(recorder.HTTPHandler()))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// advance simulated devices
	go services.Simulator.Run(ctx, cfg.SimTick)

	// periodic status snapshots
	statusPoller := poller.New(services.Devices, services.Monitoring, log)
	if err := statusPoller.Start(ctx, cfg.PollInterval); err != nil {
		log.Fatalw("failed to start status poller", "err", err)
	}

	// start HTTP server
	srv := server.New(server.Config{Port: cfg.Port, WriteTimeout: cfg.WriteTimeout}, apiHandler.InitRoutes())
	runHTTPServer(srv, log)
	log.Infow("server_started", "addr", srv.Addr(), "max_attempts", cfg.MaxAttempts, "retry_delay", cfg.RetryDelay.String())

	// graceful shutdown
	waitForShutdown(cancel, srv, statusPoller, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, p *poller.Poller, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()
	if err := p.Stop(); err != nil {
		log.Errorw("status poller shutdown failed", "err", err)
	}

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
