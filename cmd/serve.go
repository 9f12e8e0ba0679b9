package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/sidegames-golf/sidegames/db"
	"github.com/sidegames-golf/sidegames/handlers"
	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/mailer"
	"github.com/sidegames-golf/sidegames/middleware"
	"github.com/sidegames-golf/sidegames/realtime"
	"github.com/sidegames-golf/sidegames/routes"
)

func newServeCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before starting")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	cfg, log := a.cfg, a.log

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DB, dbConnectTimeout, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Error("failed to close database connection", logger.Err(err))
		} else {
			log.Info("database connection closed")
		}
	}()

	if migrate {
		applied, err := db.Migrate(ctx, dbConn, log)
		if err != nil {
			return err
		}
		log.Info("migrations complete", slog.Int("applied", applied))
	}

	store := openStore(ctx, cfg.Redis, log)
	defer store.Close()

	uploader := openUploader(ctx, cfg.Storage, log)

	hub := realtime.NewHub(log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)
	log.Info("websocket hub started")

	svc := newServices(serviceDeps{
		cfg:      cfg,
		repos:    newRepos(dbConn),
		store:    store,
		uploader: uploader,
		mail:     mailer.New(cfg.SMTP, cfg.Server.PublicURL, log),
		notifier: hub,
		log:      log,
	})

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(svc.auth),
		Profile:   handlers.NewProfileHandler(svc.profiles),
		Tour:      handlers.NewTourHandler(svc.tours),
		Location:  handlers.NewLocationHandler(svc.locations),
		SideGame:  handlers.NewSideGameHandler(svc.sideGames),
		Event:     handlers.NewEventHandler(svc.events),
		Dashboard: handlers.NewDashboardHandler(svc.dashboard),
		Cart:      handlers.NewCartHandler(svc.cart, svc.checkout),
		Purchase:  handlers.NewPurchaseHandler(svc.purchases),
		Contact:   handlers.NewContactHandler(svc.contact),
		WebSocket: handlers.NewWebSocketHandler(hub, cfg.Server.AllowedOrigins),
	}, routes.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustProxy:     cfg.Server.TrustProxy,
		Auth:           middleware.NewAuthenticator(svc.tokens, store, log),
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Logger:         log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		log.Info("server stopped")
		return nil
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	log.Info("shutting down server", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Err(err))
		if closeErr := server.Close(); closeErr != nil {
			log.Error("failed to force close server", logger.Err(closeErr))
		}
		return err
	}
	stopHub()
	log.Info("server shutdown complete")
	return nil
}
