package confs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment.
type Config struct {
	HTTPAddr string

	DBDriver   string
	DBURL      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SessionTTL      time.Duration
	CookieSecure    bool

	InviteTTL         time.Duration
	Location          *time.Location
	FreeTaskLimit     int
	AnalyticsCacheTTL time.Duration
	JanitorInterval   time.Duration
	CORSOrigins       []string
}

// LoadConfig loads environment variables from a .env file if present.
func LoadConfig() error {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}
	return nil
}

// Load reads .env (if any) and the process environment into a Config.
func Load() (Config, error) {
	if err := LoadConfig(); err != nil {
		return Config{}, err
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPAddr:   get("HTTP_ADDR", "0.0.0.0:3536"),
		DBDriver:   get("DB_DRIVER", "postgres"),
		DBURL:      get("DB_URL", ""),
		DBHost:     get("DB_HOST", ""),
		DBPort:     get("DB_PORT", ""),
		DBUser:     get("DB_USER", ""),
		DBPassword: get("DB_PASSWORD", ""),
		DBName:     get("DB_NAME", ""),
		SQLitePath: get("SQLITE_PATH", "lifeops.db"),
		JWTSecret:  get("JWT_SECRET", ""),
	}

	var err error
	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", "15m", &cfg.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", "720h", &cfg.RefreshTokenTTL},
		{"SESSION_TTL", "720h", &cfg.SessionTTL},
		{"INVITE_TTL", "168h", &cfg.InviteTTL},
		{"ANALYTICS_CACHE_TTL", "5m", &cfg.AnalyticsCacheTTL},
		{"JANITOR_INTERVAL", "1h", &cfg.JanitorInterval},
	}
	for _, d := range durations {
		if *d.dst, err = time.ParseDuration(get(d.key, d.def)); err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		if *d.dst <= 0 {
			return cfg, fmt.Errorf("invalid %s: must be positive", d.key)
		}
	}

	if cfg.FreeTaskLimit, err = strconv.Atoi(get("FREE_TASK_LIMIT", "10")); err != nil || cfg.FreeTaskLimit < 0 {
		return cfg, fmt.Errorf("invalid FREE_TASK_LIMIT %q", getenv("FREE_TASK_LIMIT"))
	}
	if cfg.CookieSecure, err = strconv.ParseBool(get("COOKIE_SECURE", "true")); err != nil {
		return cfg, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}

	tz := get("APP_TIMEZONE", "Local")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return cfg, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
	}

	if origins := get("CORS_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return cfg, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if len(cfg.JWTSecret) < 32 {
		return cfg, fmt.Errorf("JWT_SECRET is required and must be at least 32 bytes")
	}

	return cfg, nil
}
