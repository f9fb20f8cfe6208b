package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danielhkuo/superb-owl/auth"
	"github.com/danielhkuo/superb-owl/cliparse"
	"github.com/danielhkuo/superb-owl/db"
	"github.com/danielhkuo/superb-owl/espn"
	"github.com/danielhkuo/superb-owl/live"
	"github.com/danielhkuo/superb-owl/ratelimit"
	"github.com/danielhkuo/superb-owl/router"
)

// liveCacheTTL bounds how long a rate limited client can be served a stale payload
const liveCacheTTL = 10 * time.Minute

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error parsing flags")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.AdminToken == "" {
		log.Warn().Msg("SUPERBOWL_ADMIN_TOKEN not set; board admin routes will answer CONFIG_ERROR")
	}

	ctx := context.Background()

	// Connect to the database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.DatabaseType).Msg("database connection failed")
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		log.Fatal().Err(err).Msg("schema creation failed")
	}
	log.Info().Str("type", cfg.DatabaseType).Msg("database schema ready")

	clock := clockwork.NewRealClock()
	store, err := db.NewStore(dbConn, clock, auth.NewRoles(cfg.SuperAdminName))
	if err != nil {
		log.Fatal().Err(err).Msg("store setup failed")
	}

	scores := espn.NewClient(espn.Config{
		BaseURL:       cfg.ESPNBaseURL,
		Timeout:       cfg.ESPNTimeout,
		DefaultGameID: cfg.DefaultGameID,
		Clock:         clock,
	})
	engine := live.NewEngine(store, scores, live.NewSnapshotMemory(), clock, live.Options{})

	// Rate limiting and the live cache are shared through Redis when configured
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.LiveRateLimit, clock)
	var cache ratelimit.PayloadCache = ratelimit.NewMemoryCache()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis ping failed")
		}
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.LiveRateLimit)
		cache = ratelimit.NewRedisCache(rdb, liveCacheTTL)
		log.Info().Msg("using redis rate limiter and live cache")
	}

	handler := router.NewRouter(router.Deps{
		Store:   store,
		Engine:  engine,
		Limiter: limiter,
		Cache:   cache,
		Clock:   clock,
	}, cfg)

	server := http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", cfg.Port).Msg("listening")
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server closed")
	} else {
		log.Info().Msg("server closed")
	}
}
