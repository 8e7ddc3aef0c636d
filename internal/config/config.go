package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPGX = "pgx"
	DriverPQ  = "postgres"
)

type Config struct {
	DatabaseURL    string
	DBDriver       string
	DBQueryTimeout time.Duration
	DBAutoMigrate  bool

	JWTSecret    []byte
	JWTAccessTTL time.Duration

	Port     int
	LogLevel string

	ProtectClientCreate bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
}

// LoadConfig reads .env (if present) and the process environment once.
// DATABASE_URL and JWT_SECRET_KEY are required.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	var errs []error

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DBDriver:     EnvDefault("DB_DRIVER", DriverPGX),
		JWTSecret:    []byte(os.Getenv("JWT_SECRET_KEY")),
		LogLevel:     EnvDefault("LOG_LEVEL", "info"),
		KafkaBrokers: CSV(os.Getenv("KAFKA_ADDRESS")),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("missing required env DATABASE_URL"))
	}
	if len(cfg.JWTSecret) == 0 {
		errs = append(errs, errors.New("missing required env JWT_SECRET_KEY"))
	}
	if cfg.DBDriver != DriverPGX && cfg.DBDriver != DriverPQ {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPGX, DriverPQ, cfg.DBDriver))
	}

	port, err := envInt("PORT", 5000)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Port = port

	if cfg.JWTAccessTTL, err = envDuration("JWT_ACCESS_TTL", 15*time.Minute); err != nil {
		errs = append(errs, err)
	}
	if cfg.DBQueryTimeout, err = envDuration("DB_QUERY_TIMEOUT", 5*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.ProtectClientCreate, err = EnvBool("PROTECT_CLIENT_CREATE", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.DBAutoMigrate, err = EnvBool("DB_AUTO_MIGRATE", false); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvBool accepts the strconv.ParseBool spellings and rejects anything else.
func EnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s=%q", key, v)
	}
	return b, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s=%q", key, v)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s=%q", key, v)
	}
	return d, nil
}
