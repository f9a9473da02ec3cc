package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopfront-labs/order-lifecycle/internal/dal/postgres"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/rabbitmq"
	outboxrepo "github.com/shopfront-labs/order-lifecycle/internal/dal/repositories/outbox/postgres"
	"github.com/shopfront-labs/order-lifecycle/internal/otel"
	"github.com/shopfront-labs/order-lifecycle/internal/service/services/lifecyclesvc"
	httptransport "github.com/shopfront-labs/order-lifecycle/internal/transport/http"
	outboxworker "github.com/shopfront-labs/order-lifecycle/internal/worker/outbox"
)

// App represents the application.
type App struct {
	lifecycleSvc   *lifecyclesvc.LifecycleService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	lifecycleSvc := lifecyclesvc.MustNewLifecycleService(
		lifecyclesvc.WithPostgresClient(postgresClient),
	)

	transport := httptransport.NewHTTPTransport(lifecycleSvc)
	transport.RegisterRoutes()

	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())
	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		lifecycleSvc:   lifecycleSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitMqClient: rabbitMqClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops the components in dependency order: HTTP first so no
// new mutations arrive, then the worker, then the clients.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	} else {
		slog.Info("Otel trace provider closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
