package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vestaclub/vesta/internal/server"
	"github.com/vestaclub/vesta/modules"
	"github.com/vestaclub/vesta/pkg/application"
	"github.com/vestaclub/vesta/pkg/configuration"
	"github.com/vestaclub/vesta/pkg/eventbus"
	"github.com/vestaclub/vesta/pkg/metrics"
)

func main() {
	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		logger.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.WithError(err).Fatal("database is unreachable")
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app); err != nil {
		logger.WithError(err).Fatal("failed to load modules")
	}
	if err := app.Migrations().Apply(ctx); err != nil {
		logger.WithError(err).Fatal("failed to apply schema")
	}

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	srv, err := server.Default(&server.DefaultOptions{
		Configuration: conf,
		Application:   app,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to assemble server")
	}

	logger.WithField("address", conf.SocketAddress).Info("listening")
	if err := srv.Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
