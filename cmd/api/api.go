package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pitchbook/docs" // required to register swagger docs
	"pitchbook/internal/auth"
	"pitchbook/internal/domain/bookings"
	"pitchbook/internal/domain/storage"
	"pitchbook/internal/domain/users"
	"pitchbook/internal/mailer"
	"pitchbook/internal/notifications"
	"pitchbook/internal/ratelimiter"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	push          notifications.PushSender
	refs          *bookings.RefGenerator
	now           func() time.Time
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret          string
	refreshSecret   string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	exp       time.Duration
	fromEmail string
	mailtrap  mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})
		r.Put("/users/activate/{token}", app.activateUserHandler)

		r.Route("/venues", func(r chi.Router) {
			r.Get("/", app.listVenuesHandler)

			r.Route("/{venueID}", func(r chi.Router) {
				r.Get("/", app.getVenueHandler)
				r.Get("/availability", app.getVenueAvailabilityHandler)
				r.Get("/reviews", app.getVenueReviewsHandler)

				// Signed-in players
				r.Group(func(r chi.Router) {
					r.Use(app.AuthTokenMiddleware)
					r.Post("/bookings", app.createBookingHandler)
					r.Post("/reviews", app.createVenueReviewHandler)
					r.Delete("/reviews/{reviewID}", app.deleteVenueReviewHandler)
					r.Post("/complaints", app.createComplaintHandler)
				})

				// Venue owner only
				r.Group(func(r chi.Router) {
					r.Use(app.AuthTokenMiddleware, app.RequireVenueOwner)
					r.Patch("/", app.updateVenueInfoHandler)
					r.Put("/open-slots", app.setOpenSlotsHandler)
					r.Post("/photos", app.uploadVenuePhotoHandler)
					r.Delete("/photos", app.deleteVenuePhotoHandler)
					r.Get("/bookings", app.getVenueBookingsHandler)
					r.Patch("/bookings/{bookingID}/accept", app.acceptBookingHandler)
					r.Patch("/bookings/{bookingID}/reject", app.rejectBookingHandler)
					r.Patch("/bookings/{bookingID}/cancel", app.ownerCancelBookingHandler)
					r.Get("/complaints", app.getVenueComplaintsHandler)
					r.Patch("/complaints/{complaintID}", app.updateComplaintStatusHandler)
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/me", app.getCurrentUserHandler)
			r.Put("/", app.updateUserHandler)
			r.Post("/profile-picture", app.uploadProfilePictureHandler)
			r.Post("/logout", app.logoutHandler)
			r.Post("/push-token", app.registerPushTokenHandler)
			r.Delete("/push-token", app.removePushTokenHandler)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.getMyBookingsHandler)
			r.Patch("/{bookingID}/cancel", app.cancelMyBookingHandler)
		})

		r.Route("/complaints", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.getMyComplaintsHandler)
		})

		r.Route("/venue-requests", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.createVenueRequestHandler)
			r.Get("/mine", app.getMyVenueRequestsHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.RequireRole(users.RoleAdmin))
				r.Get("/", app.listVenueRequestsHandler)
				r.Patch("/{requestID}/approve", app.approveVenueRequestHandler)
				r.Patch("/{requestID}/reject", app.rejectVenueRequestHandler)
			})
		})

		r.Route("/owner", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware, app.RequireRole(users.RoleOwner))
			r.Get("/venues", app.getOwnerVenuesHandler)
			r.Get("/earnings", app.getOwnerEarningsHandler)
			r.Patch("/payments/{paymentID}/paid", app.markPaymentPaidHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
