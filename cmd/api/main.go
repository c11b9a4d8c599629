package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olympiadhq/regservice/internal/config"
	"github.com/olympiadhq/regservice/internal/db"
	httpx "github.com/olympiadhq/regservice/internal/http"
	"github.com/olympiadhq/regservice/internal/notifications"
	"github.com/olympiadhq/regservice/internal/observability"
	"github.com/olympiadhq/regservice/internal/payments"
	"github.com/olympiadhq/regservice/internal/redisclient"
)

func main() {
	// .env is a dev convenience; absence is fine
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	if cfg.SecretKey == "" {
		log.Error("APP_SECRET_KEY is required")
		os.Exit(1)
	}

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "regservice", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()

			if err := shutdownTracer(ctx); err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}()
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	{
		ctx, cancel := config.WithTimeout(10 * time.Second)
		err := db.EnsureSchema(ctx, pool)
		cancel()

		if err != nil {
			log.Error("schema setup failed", "err", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	var redis *redisclient.Client

	if cfg.RedisAddr != "" {
		redis = redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})

		defer redis.Close()

		ctx, cancel := config.WithTimeout(2 * time.Second)
		err := redis.Ping(ctx)
		cancel()

		if err != nil {
			// the submit lock is an optimization; run without it
			log.Warn("redis unreachable, submit locking disabled", "err", err)
			redis = nil
		}
	}

	gateway := payments.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	var notifier notifications.Notifier

	if cfg.Mail.Host != "" {
		mailNotifier, err := notifications.NewMailNotifier(notifications.MailConfig{
			Host:       cfg.Mail.Host,
			Port:       cfg.Mail.Port,
			Username:   cfg.Mail.Username,
			Password:   cfg.Mail.Password,
			From:       cfg.Mail.From,
			OperatorTo: cfg.Mail.OperatorTo,
			EventName:  cfg.Event.Name,
		})

		if err != nil {
			log.Error("smtp client setup failed", "err", err)
			os.Exit(1)
		}

		notifier = mailNotifier
	} else {
		log.Warn("SMTP_HOST not set, mails go to the log")
		notifier = notifications.NewLogNotifier(log)
	}

	notifier = notifications.NewProtectedNotifier(notifier, notifications.ProtectedNotifierConfig{})

	router := httpx.NewRouter(httpx.Deps{
		Log:          log,
		Cfg:          cfg,
		Pool:         pool,
		Prom:         prom,
		PromRegistry: registry,
		Gateway:      gateway,
		Notifier:     notifier,
		Redis:        redis,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")
	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
