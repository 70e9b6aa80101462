package server

import (
	"net/http"

	"tourism/internal/access"
	"tourism/internal/config"
	"tourism/internal/middleware"
	"tourism/internal/modules/auth"
	"tourism/internal/modules/booking"
	"tourism/internal/modules/catalog"
	"tourism/internal/modules/dashboard"
	"tourism/internal/modules/payment"
	"tourism/internal/modules/users"
	"tourism/internal/pkg/idempotency"
	"tourism/internal/pkg/jwt"
	"tourism/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the pieces built by cmd/api that the router needs.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Log         logrus.FieldLogger
	Gateway     payment.Gateway
	Idempotency idempotency.Store
	// Publishers receive booking events next to the dashboard hub.
	Publishers []booking.EventPublisher
}

type Server struct {
	Router *gin.Engine
	Hub    *dashboard.Hub
}

func New(d Deps) *Server {
	cfg := d.Config

	userRepo := repository.NewUserRepository(d.DB)
	placeRepo := repository.NewPlaceRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)
	paymentRepo := repository.NewPaymentRepository(d.DB)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := dashboard.NewHub(cfg.CORSAllowedOrigins, d.Log)
	publisher := append(booking.Fanout{hub}, d.Publishers...)

	authHandler := auth.NewHandler(auth.NewService(userRepo, tokens), d.Log)
	usersHandler := users.NewHandler(users.NewService(userRepo, auth.HashPassword), d.Log)
	catalogHandler := catalog.NewHandler(catalog.NewService(placeRepo), d.Log)
	paymentHandler := payment.NewHandler(payment.NewService(paymentRepo), d.Log)

	bookingService := booking.NewService(
		bookingRepo,
		placeRepo,
		userRepo,
		paymentRepo,
		d.Gateway,
		publisher,
		d.Log,
		booking.Options{TestChargeCap: cfg.TestChargeCap},
	)
	bookingHandler := booking.NewHandler(bookingService, d.Idempotency, d.Log)

	dashboardHandler := dashboard.NewHandler(dashboard.NewService(placeRepo, bookingRepo, userRepo), hub, d.Log)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		loginLimit := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.LoginRatePerMinute))
		callbackLimit := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.CallbackRatePerMinute))

		authHandler.RegisterPublicRoutes(api, loginLimit)
		catalogHandler.RegisterPublicRoutes(api)
		bookingHandler.RegisterPublicRoutes(api, callbackLimit)
		dashboardHandler.RegisterLiveRoute(api, middleware.JWTQueryAuth(tokens, userRepo))

		protected := api.Group("")
		protected.Use(middleware.JWTAuth(tokens, userRepo))
		{
			authHandler.RegisterProtectedRoutes(protected)
			usersHandler.RegisterRoutes(protected)
			catalogHandler.RegisterAdminRoutes(protected)
			bookingHandler.RegisterProtectedRoutes(protected)
			dashboardHandler.RegisterRoutes(protected)

			payments := protected.Group("/payments", middleware.Authorize(access.KindPayment, access.ActionRead))
			paymentHandler.RegisterRoutes(payments)
		}
	}

	return &Server{Router: r, Hub: hub}
}
