package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset outside release mode.
const DevJWTSecret = "dev-secret-change-me"

type Config struct {
	Port    string
	GinMode string

	DBDriver string
	DBDSN    string
	Seed     bool

	AdminEmail    string
	AdminPassword string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	CORSOrigins []string
	LoginRate   int

	RedisAddr    string
	KafkaBrokers []string
	KafkaTopic   string

	LogLevel  string
	LogFormat string

	RestaurantName    string
	RestaurantAddress string
	RestaurantPhone   string
	VATRate           decimal.Decimal
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	loginRate, err := strconv.Atoi(getEnv("LOGIN_RATE", "5"))
	if err != nil || loginRate <= 0 {
		return nil, errors.New("LOGIN_RATE must be a positive integer")
	}
	vat, err := decimal.NewFromString(getEnv("VAT_RATE", "0.10"))
	if err != nil || vat.IsNegative() {
		return nil, errors.New("VAT_RATE must be a non-negative decimal")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		DBDriver:          getEnv("DB_DRIVER", "sqlite"),
		DBDSN:             getEnv("DB_DSN", "restaurant.db?_foreign_keys=on"),
		Seed:              getEnv("SEED", "false") == "true",
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTIssuer:         getEnv("JWT_ISSUER", "RestaurantAPI"),
		JWTAudience:       getEnv("JWT_AUDIENCE", "RestaurantApp"),
		JWTTTL:            ttl,
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LoginRate:         loginRate,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "restaurant-events"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		RestaurantName:    getEnv("RESTAURANT_NAME", "Restaurant"),
		RestaurantAddress: os.Getenv("RESTAURANT_ADDRESS"),
		RestaurantPhone:   os.Getenv("RESTAURANT_PHONE"),
		VATRate:           vat,
	}

	if cfg.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return nil, errors.New("JWT_SECRET is required in release mode")
		}
		cfg.JWTSecret = DevJWTSecret
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
