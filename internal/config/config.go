package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env       string
	Port      int
	SecretKey string
	DBURL     string

	RedisAddr     string
	RedisPassword string

	Razorpay RazorpayConfig
	Mail     MailConfig
	Admin    AdminConfig
	Event    EventConfig

	OTLPEndpoint   string
	AllowedOrigins []string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	OperatorTo string
}

type AdminConfig struct {
	Email        string
	PasswordHash string
}

type EventConfig struct {
	Name string
	// TicketPrice is in whole currency units; the gateway gets minor units.
	TicketPrice int64
	Currency    string
	Grades      []string
	ExemptGrade string
	Timezone    string
}

func Load() Config {
	return Config{
		Env:       getEnv("APP_ENV", "dev"),
		Port:      getEnvInt("PORT", 8080),
		SecretKey: getEnv("APP_SECRET_KEY", ""),
		DBURL:     buildDBURL(),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		Razorpay: RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		},
		Mail: MailConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvInt("SMTP_PORT", 587),
			Username:   getEnv("SMTP_USERNAME", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("MAIL_FROM", ""),
			OperatorTo: getEnv("OPERATOR_EMAIL", ""),
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Event: EventConfig{
			Name:        getEnv("EVENT_NAME", "Olympiad"),
			TicketPrice: int64(getEnvInt("TICKET_PRICE", 25)),
			Currency:    getEnv("CURRENCY", "INR"),
			Grades:      getEnvList("GRADES", []string{"4", "5", "6", "7", "8", "9", "10"}),
			ExemptGrade: getEnv("EXEMPT_GRADE", "6"),
			Timezone:    getEnv("EVENT_TIMEZONE", "Asia/Kolkata"),
		},

		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", nil),
	}
}

func buildDBURL() string {
	if url := getEnv("DB_URL", ""); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "regservice")
	pass := getEnv("DB_PASSWORD", "regservice")
	name := getEnv("DB_NAME", "regservice")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)

	if v == "" {
		return fallback
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return fallback
	}

	return out
}
