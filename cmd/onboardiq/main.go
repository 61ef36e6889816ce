package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"golang.org/x/sync/errgroup"

	"github.com/neomorfeo/onboardiq/internal/adapter/credential"
	"github.com/neomorfeo/onboardiq/internal/adapter/email"
	"github.com/neomorfeo/onboardiq/internal/adapter/fsm"
	handler "github.com/neomorfeo/onboardiq/internal/adapter/http"
	oteladapter "github.com/neomorfeo/onboardiq/internal/adapter/otel"
	riveradapter "github.com/neomorfeo/onboardiq/internal/adapter/river"
	"github.com/neomorfeo/onboardiq/internal/adapter/sqlite"
	"github.com/neomorfeo/onboardiq/internal/app"
	"github.com/neomorfeo/onboardiq/internal/config"
	"github.com/neomorfeo/onboardiq/internal/logger"
)

const apiVersion = "0.1.0"

func main() {
	if err := run(); err != nil {
		slog.Error("onboardiq stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	// --- Telemetry ---
	providers, err := oteladapter.Setup(ctx, oteladapter.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Telemetry.Environment,
		Exporter:       cfg.Telemetry.Exporter,
		Insecure:       cfg.Telemetry.Environment == "development",
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := oteladapter.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	store, err := sqlite.NewFromDB(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("database: %w", err)
	}
	defer store.Close()

	notifier := oteladapter.NewTracingNotifier(email.NewDispatcher(newMailer(cfg.Mail, log)))

	riverClient, err := riveradapter.Setup(ctx, db, notifier)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	queue := riveradapter.NewQueue(riverClient, cfg.Mail.RetryAttempts)

	// --- Application ---
	requests := oteladapter.NewTracingRequestRepository(store.Requests())
	audit := app.NewAuditRecorder(store.Audit())
	notify := app.NewNotificationDispatcher(notifier, queue, store, audit)

	users := app.NewUserLifecycle(store, store.Users(), audit)
	admin, err := users.EnsureSuperAdmin(ctx, app.SuperAdminInput{
		ID:    cfg.Bootstrap.SuperAdminID,
		Email: cfg.Bootstrap.SuperAdminEmail,
	})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	log.Info("super administrator ready", "id", admin.ID, "email", admin.Email)

	services := handler.Services{
		Requests: app.NewRequestService(store, requests, store.Users(), audit, notify),
		Provisioner: app.NewProvisioner(app.ProvisionerDeps{
			Tx:             store,
			Requests:       requests,
			Tenants:        store.Tenants(),
			Users:          store.Users(),
			Guard:          fsm.New(),
			Credentials:    credential.NewGenerator(),
			Hasher:         credential.NewBcryptHasher(cfg.Credentials.BcryptCost),
			Audit:          audit,
			Notify:         notify,
			PasswordLength: cfg.Credentials.PasswordLength,
		}),
		Users: users,
		Audit: audit,
	}

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware(cfg.Telemetry.ServiceName, otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("onboardiq", apiVersion))
	handler.Register(api, services)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// River runs on its own context so that shutdown can drain it after the
	// HTTP server stopped accepting work.
	if err := riverClient.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("river start: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("onboardiq listening", "port", cfg.Server.Port, "docs", "http://localhost:"+cfg.Server.Port+"/docs")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return errors.Join(
			srv.Shutdown(shutdownCtx),
			riverClient.Stop(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("stopped")
	return nil
}

func newMailer(cfg config.Mail, log *slog.Logger) email.Mailer {
	if cfg.Transport == "sendgrid" {
		return email.NewSendGridMailer(email.SendGridConfig{
			APIKey:    cfg.SendGridKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
			Host:      cfg.SendGridHost,
		})
	}
	return email.NewLogMailer(log)
}
