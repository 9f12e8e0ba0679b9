package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sidegames-golf/sidegames/config"
	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/mailer"
	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/services"
	"github.com/sidegames-golf/sidegames/sessions"
	"github.com/sidegames-golf/sidegames/sidegames"
	"github.com/sidegames-golf/sidegames/storage"
)

const (
	dbConnectTimeout = 5 * time.Second
	redisPingTimeout = 3 * time.Second
)

type repos struct {
	tx            repositories.Transactor
	users         repositories.UserRepository
	profiles      repositories.ProfileRepository
	tours         repositories.TourRepository
	locations     repositories.LocationRepository
	tourLocations repositories.TourLocationRepository
	userTours     repositories.UserTourRepository
	sideGames     repositories.SideGameRepository
	events        repositories.EventRepository
	eventGames    repositories.EventSideGamesRepository
	purchases     repositories.PurchaseRepository
	cart          repositories.CartRepository
}

func newRepos(dbConn *sqlx.DB) repos {
	return repos{
		tx:            repositories.NewTransactor(dbConn),
		users:         repositories.NewPostgresUserRepository(dbConn),
		profiles:      repositories.NewPostgresProfileRepository(dbConn),
		tours:         repositories.NewPostgresTourRepository(dbConn),
		locations:     repositories.NewPostgresLocationRepository(dbConn),
		tourLocations: repositories.NewPostgresTourLocationRepository(dbConn),
		userTours:     repositories.NewPostgresUserTourRepository(dbConn),
		sideGames:     repositories.NewPostgresSideGameRepository(dbConn),
		events:        repositories.NewPostgresEventRepository(dbConn),
		eventGames:    repositories.NewPostgresEventSideGamesRepository(dbConn),
		purchases:     repositories.NewPostgresPurchaseRepository(dbConn),
		cart:          repositories.NewPostgresCartRepository(dbConn),
	}
}

// openStore подключается к Redis; без REDIS_URL или при недоступном Redis
// работает хранилище в памяти процесса.
func openStore(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) sessions.Store {
	if cfg.URL == "" {
		log.Info("redis is not configured, using in-memory session store")
		return sessions.NewMemoryStore()
	}

	store := sessions.NewRedisStore(cfg)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Warn("redis is unavailable, falling back to in-memory session store", logger.Err(err))
		_ = store.Close()
		return sessions.NewMemoryStore()
	}
	log.Info("redis connection established")
	return store
}

func openUploader(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) storage.FileUploader {
	if !cfg.Enabled() {
		log.Info("avatar storage is not configured, uploads are disabled")
		return storage.NewDisabledUploader()
	}
	uploader, err := storage.NewS3Uploader(ctx, cfg)
	if err != nil {
		log.Warn("failed to initialize avatar storage, uploads are disabled", logger.Err(err))
		return storage.NewDisabledUploader()
	}
	log.Info("avatar storage initialized", slog.String("bucket", cfg.Bucket))
	return uploader
}

type appServices struct {
	tokens    services.TokenIssuer
	auth      services.AuthService
	profiles  services.ProfileService
	tours     services.TourService
	locations services.LocationService
	sideGames services.SideGameService
	events    services.EventService
	dashboard services.DashboardService
	cart      services.CartService
	checkout  services.CheckoutService
	purchases services.PurchaseService
	contact   services.ContactService
}

type serviceDeps struct {
	cfg      *config.Config
	repos    repos
	store    sessions.Store
	uploader storage.FileUploader
	mail     mailer.Mailer
	notifier services.Notifier
	log      *slog.Logger
}

func newServices(d serviceDeps) appServices {
	loc := d.cfg.Location()
	fees := sidegames.Fees{
		PercentBasisPoints: d.cfg.Checkout.FeePercentBasisPoints,
		FlatCents:          models.Cents(d.cfg.Checkout.FlatFeeCents),
	}
	r := d.repos

	tokens := services.NewJWTIssuer(d.cfg.Auth.JWTSecretKey, d.cfg.Auth.TokenTTL)
	sideGames := services.NewSideGameService(r.sideGames, d.store, d.log)
	events := services.NewEventService(r.tx, r.events, r.eventGames, r.tours, r.locations, r.purchases, sideGames, loc)

	return appServices{
		tokens:    tokens,
		auth:      services.NewAuthService(r.tx, r.users, r.profiles, tokens, d.store, d.mail, d.cfg.Auth.ResetTTL, d.log),
		profiles:  services.NewProfileService(r.tx, r.profiles, r.users, d.uploader, d.log),
		tours:     services.NewTourService(r.tours, r.locations, r.tourLocations, r.userTours),
		locations: services.NewLocationService(r.locations),
		sideGames: sideGames,
		events:    events,
		dashboard: services.NewDashboardService(r.tours, r.locations, r.events, events, sideGames),
		cart:      services.NewCartService(r.tx, r.cart, r.purchases, events, fees, d.notifier),
		checkout:  services.NewCheckoutService(r.tx, r.cart, r.purchases, fees, d.notifier, loc, d.log),
		purchases: services.NewPurchaseService(r.purchases, r.events, r.tours, r.locations, r.users, r.profiles, d.cfg.Server.PublicURL),
		contact:   services.NewContactService(d.mail),
	}
}
