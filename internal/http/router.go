package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/olympiadhq/regservice/internal/auth"
	"github.com/olympiadhq/regservice/internal/cache"
	"github.com/olympiadhq/regservice/internal/config"
	"github.com/olympiadhq/regservice/internal/http/handlers"
	"github.com/olympiadhq/regservice/internal/http/middlewares"
	"github.com/olympiadhq/regservice/internal/notifications"
	"github.com/olympiadhq/regservice/internal/observability"
	"github.com/olympiadhq/regservice/internal/payments"
	"github.com/olympiadhq/regservice/internal/redisclient"
	"github.com/olympiadhq/regservice/internal/registration"
	"github.com/olympiadhq/regservice/internal/repo/postgres"
	"github.com/olympiadhq/regservice/internal/stats"
)

const (
	maxBodyBytes  = 1 << 20 // forms only, 1 MiB is generous
	accessTTL     = time.Hour
	statsCacheTTL = 30 * time.Second
)

type Deps struct {
	Log          *slog.Logger
	Cfg          config.Config
	Pool         *pgxpool.Pool
	Prom         *observability.Prom
	PromRegistry *prometheus.Registry
	Gateway      payments.Gateway
	Notifier     notifications.Notifier
	Redis        *redisclient.Client // may be nil
}

// NewRouter wires the full HTTP surface. Route spellings, including the
// misspelled save path, match what the deployed frontend posts to.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("regservice"))
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger(deps.Log))
	router.Use(middlewares.SecurityHeaders())
	router.Use(middlewares.CORSMiddleware(deps.Cfg.AllowedOrigins))
	router.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	router.Use(deps.Prom.GinHandleMiddleware())

	registrants := postgres.NewRegistrantsRepo(deps.Pool, deps.Prom)
	visits := postgres.NewVisitsRepo(deps.Pool, deps.Prom)

	// a nil *Client must stay a nil interface
	var locker registration.SubmitLocker
	if deps.Redis != nil {
		locker = deps.Redis
	}

	regSvc := registration.NewService(registrants, deps.Notifier, locker, deps.Log, deps.Prom, registration.Config{
		Grades:   deps.Cfg.Event.Grades,
		Timezone: deps.Cfg.Event.Timezone,
	})

	verifier := payments.NewVerifier(deps.Gateway, deps.Log, deps.Prom)

	reporter := stats.NewReporter(registrants, visits, stats.Config{
		TicketPrice: deps.Cfg.Event.TicketPrice,
		Currency:    deps.Cfg.Event.Currency,
		Grades:      deps.Cfg.Event.Grades,
		ExemptGrade: deps.Cfg.Event.ExemptGrade,
	})

	jwtManager := auth.NewManager(deps.Cfg.SecretKey, accessTTL)

	pagesHandler := handlers.NewPagesHandler(visits, deps.Cfg.Event, deps.Cfg.Razorpay.KeyID, deps.Log)
	registrationsHandler := handlers.NewRegistrationsHandler(regSvc, deps.Log)
	paymentsHandler := handlers.NewPaymentsHandler(deps.Gateway, verifier, deps.Cfg.Event, deps.Cfg.Razorpay.KeyID, deps.Log)
	statsHandler := handlers.NewStatsHandler(reporter, cache.New[stats.Report](statsCacheTTL), deps.Log)
	authHandler := handlers.NewAuthHandler(jwtManager, deps.Cfg.Admin)
	healthHandler := handlers.NewHealthHandler(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return deps.Pool.Ping(ctx)
	})

	authMW := middlewares.NewAuthMiddleware(jwtManager)

	submitLimiter := middlewares.NewRateLimiter(10, time.Minute)
	loginLimiter := middlewares.NewRateLimiter(5, time.Minute)

	router.GET("/", pagesHandler.Home)
	router.GET("/what_is", pagesHandler.WhatIs)
	router.GET("/rules", pagesHandler.Rules)
	router.GET("/tc", pagesHandler.Terms)

	router.POST("/validate_data", registrationsHandler.ValidateData)
	router.POST("/get_status", registrationsHandler.GetStatus)

	limited := router.Group("/", submitLimiter.Middleware(middlewares.KeyByIP))
	limited.POST("/create_order", paymentsHandler.CreateOrder)
	limited.POST("/verify_payment", paymentsHandler.VerifyPayment)
	limited.POST("/save_in_databse", registrationsHandler.Save)

	router.POST("/admin/login", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)
	router.GET("/getdata", authMW.RequireAdmin(), statsHandler.GetData)

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{})))

	return router
}
