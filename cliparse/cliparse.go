package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort           = 3318
	DefaultSuperAdminName = "admin adminson"
	DefaultESPNBaseURL    = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"
	DefaultESPNTimeout    = 6 * time.Second
	DefaultLiveRateLimit  = 750 * time.Millisecond
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AdminToken     string
	DefaultGameID  string
	SuperAdminName string
	ESPNBaseURL    string
	ESPNTimeout    time.Duration
	LiveRateLimit  time.Duration
	RedisURL       string
	CORSOrigins    []string
	LogLevel       string
}

// ParseFlags validates flags and fills unset values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var corsOrigins string

	fs := flag.NewFlagSet("superb-owl", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for the shared rate limiter")
	fs.StringVar(&corsOrigins, "cors", "", "Comma separated allowed origins")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Score feed
	fs.StringVar(&cfg.DefaultGameID, "game", "", "Default ESPN game id")
	fs.StringVar(&cfg.ESPNBaseURL, "espn-url", "", "ESPN site API base URL")
	fs.DurationVar(&cfg.ESPNTimeout, "espn-timeout", 0, "ESPN request timeout")
	fs.DurationVar(&cfg.LiveRateLimit, "rate-limit", 0, "Live endpoint rate limit window per board and client")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminToken, "admin-token", "", "Admin token (prefer env)")
	fs.StringVar(&cfg.SuperAdminName, "super-admin", "", "Reserved super admin guest name")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if corsOrigins == "" {
		corsOrigins = os.Getenv("CORS_ORIGINS")
	}
	cfg.CORSOrigins = splitList(corsOrigins)
	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}

	if cfg.DefaultGameID == "" {
		cfg.DefaultGameID = os.Getenv("SUPERBOWL_DEFAULT_GAME_ID")
	}
	if cfg.ESPNBaseURL == "" {
		cfg.ESPNBaseURL = envOr("ESPN_BASE_URL", DefaultESPNBaseURL)
	}
	var err error
	if cfg.ESPNTimeout == 0 {
		if cfg.ESPNTimeout, err = envDuration("ESPN_TIMEOUT", DefaultESPNTimeout); err != nil {
			return Config{}, err
		}
	}
	if cfg.LiveRateLimit == 0 {
		if cfg.LiveRateLimit, err = envDuration("LIVE_RATE_LIMIT", DefaultLiveRateLimit); err != nil {
			return Config{}, err
		}
	}

	// The admin token is optional at startup; admin routes answer CONFIG_ERROR without it.
	if cfg.AdminToken == "" {
		cfg.AdminToken = os.Getenv("SUPERBOWL_ADMIN_TOKEN")
	}
	if cfg.SuperAdminName == "" {
		cfg.SuperAdminName = envOr("SUPER_ADMIN_NAME", DefaultSuperAdminName)
	}

	return cfg, nil
}

// CheckAdminToken reports whether admin routes can authenticate requests
func (c Config) CheckAdminToken() error {
	if c.AdminToken == "" {
		return errors.New("SUPERBOWL_ADMIN_TOKEN is not configured")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
