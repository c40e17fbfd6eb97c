package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renovaplan/renova/internal/server"
	"github.com/renovaplan/renova/modules"
	"github.com/renovaplan/renova/pkg/application"
	"github.com/renovaplan/renova/pkg/configuration"
	"github.com/renovaplan/renova/pkg/eventbus"
)

func main() {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		logger.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("failed to reach the database")
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
	})

	if err := modules.Load(app); err != nil {
		logger.WithError(err).Fatal("failed to load modules")
	}

	if err := app.RunMigrations(ctx); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}

	srv, err := server.Default(conf, app)
	if err != nil {
		logger.WithError(err).Fatal("failed to assemble the server")
	}

	logger.WithField("address", conf.SocketAddress).Info("starting server")
	if err := srv.Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
