package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/sidegames-golf/sidegames/docs"
	"github.com/sidegames-golf/sidegames/handlers"
	"github.com/sidegames-golf/sidegames/middleware"
)

// Handlers — все обработчики API.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Tour      *handlers.TourHandler
	Location  *handlers.LocationHandler
	SideGame  *handlers.SideGameHandler
	Event     *handlers.EventHandler
	Dashboard *handlers.DashboardHandler
	Cart      *handlers.CartHandler
	Purchase  *handlers.PurchaseHandler
	Contact   *handlers.ContactHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	AllowedOrigins []string
	// TrustProxy включает chi RealIP; без него лимиты считаются по RemoteAddr.
	TrustProxy     bool
	Auth           *middleware.Authenticator
	RateLimiter    *middleware.RateLimiter
	Logger         *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	if opts.TrustProxy {
		router.Use(chiMiddleware.RealIP)
	}
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(chiMiddleware.Heartbeat("/ping"))

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	auth := opts.Auth
	limited := opts.RateLimiter.Limit

	// WebSocket не умеет слать заголовки из браузера, токен приходит в query.
	router.With(auth.AuthenticateQuery).Get("/ws/cart", h.WebSocket.ServeCart)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(limited).Post("/signup", h.Auth.SignUp)
			r.With(limited).Post("/login", h.Auth.Login)
			r.With(limited).Post("/password/forgot", h.Auth.ForgotPassword)
			r.With(limited).Post("/password/reset", h.Auth.ResetPassword)
			r.Get("/confirm", h.Auth.ConfirmEmail)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/session", h.Auth.Session)
				r.Put("/password", h.Auth.UpdatePassword)
			})
		})

		r.Route("/me", func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/profile", h.Profile.GetMe)
			r.Patch("/profile", h.Profile.UpdateMe)
			r.Delete("/profile", h.Profile.DeleteMe)
			r.Put("/profile/notifications", h.Profile.UpdateNotifications)
			r.Post("/profile/avatar", h.Profile.UploadAvatar)

			r.Get("/tours", h.Tour.ListMyTours)
			r.Post("/tours/{tourID}", h.Tour.Join)
			r.Delete("/tours/{tourID}", h.Tour.Leave)

			r.Get("/purchases", h.Purchase.List)
			r.Get("/purchases/{id}/receipt", h.Purchase.Receipt)
			r.Get("/events", h.Purchase.MyEvents)
		})

		r.With(auth.OptionalAuth).Get("/profiles/{id}", h.Profile.GetByID)

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", h.Tour.List)
			r.Get("/{id}", h.Tour.GetByID)
			r.Get("/{id}/locations", h.Tour.ListLocations)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Post("/", h.Tour.Create)
				r.Put("/{id}", h.Tour.Update)
				r.Delete("/{id}", h.Tour.Delete)
				r.Post("/{id}/locations/{locationID}", h.Tour.LinkLocation)
				r.Delete("/{id}/locations/{locationID}", h.Tour.UnlinkLocation)
			})
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", h.Location.List)
			r.Get("/{id}", h.Location.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Post("/", h.Location.Create)
				r.Put("/{id}", h.Location.Update)
				r.Delete("/{id}", h.Location.Delete)
			})
		})

		r.Get("/side-games", h.SideGame.List)
		r.Get("/side-games/{key}", h.SideGame.GetByKey)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.Event.List)
			r.Get("/{id}", h.Event.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Post("/", h.Event.Create)
				r.Put("/{id}", h.Event.Update)
				r.Delete("/{id}", h.Event.Delete)
			})
		})

		r.Get("/calendar", h.Event.Calendar)
		r.With(auth.OptionalAuth).Get("/dashboard", h.Dashboard.Load)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Get("/cart", h.Cart.Get)
			r.Post("/cart", h.Cart.Add)
			r.Put("/cart", h.Cart.Replace)
			r.Delete("/cart", h.Cart.Clear)
			r.Delete("/cart/items/{index}", h.Cart.RemoveItem)
			r.Get("/cart/quote", h.Cart.Quote)
			r.Post("/checkout", h.Cart.Checkout)
		})

		r.With(limited).Post("/contact", h.Contact.Send)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})
}
