package configs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

/* =======================
   Config
======================= */

// Config is built once at process start and injected into controllers and
// services. Handlers never read the environment at call sites, so webhook
// signature paths can be tested with fake secrets.
type Config struct {
	Port string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string

	JWTSecret string

	// Paystack webhook + verify-API key. The Stripe webhook secret lives in
	// the gateway_settings table, not here.
	PaystackSecretKey string

	// Seed credentials for the first admin user (dev/bootstrap only).
	AdminEmail    string
	AdminPassword string

	CORSOrigins string
}

/* =======================
   ENV LOADER
======================= */

func Load() *Config {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running on Railway, using system ENV")
	}

	cfg := &Config{
		Port: GetEnv("PORT", "3000"),

		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBName:     GetEnv("DB_NAME"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "require"),

		JWTSecret:         GetEnv("JWT_SECRET"),
		PaystackSecretKey: GetEnv("PAYSTACK_SECRET_KEY"),

		AdminEmail:    GetEnv("ADMIN_EMAIL"),
		AdminPassword: GetEnv("ADMIN_PASSWORD"),

		CORSOrigins: GetEnv("CORS_ORIGINS"),
	}

	if cfg.JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
	if cfg.PaystackSecretKey == "" {
		log.Println("❌ PAYSTACK_SECRET_KEY is not set — Paystack webhooks will be rejected")
	}

	return cfg
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// DSN builds the Postgres connection string. statement_timeout keeps runaway
// queries within the per-request HTTP timeout.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schoolpay&options=-c statement_timeout=3000",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}
