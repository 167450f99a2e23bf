// Package main is the entry point for the Lit Up API server.
// The API manages the song catalog and playlist configuration behind the
// CDN's authenticated edge.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/litup/internal/cache"
	memcache "github.com/prn-tf/litup/internal/cache/memory"
	rediscache "github.com/prn-tf/litup/internal/cache/redis"
	"github.com/prn-tf/litup/internal/config"
	"github.com/prn-tf/litup/internal/handler"
	"github.com/prn-tf/litup/internal/lock"
	"github.com/prn-tf/litup/internal/metrics"
	"github.com/prn-tf/litup/internal/repository"
	"github.com/prn-tf/litup/internal/service"
	"github.com/prn-tf/litup/internal/storage"
	fsstore "github.com/prn-tf/litup/internal/storage/fs"
	s3store "github.com/prn-tf/litup/internal/storage/s3"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting Lit Up API server")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	factory := repository.NewFactory(cfg.Database, logger)
	dbResult, err := factory.Create(ctx)
	if err != nil {
		return err
	}
	defer dbResult.Database.Close()

	// Cache
	var playlistCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Redis.Enabled {
			redisCache, err := rediscache.NewCache(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer redisCache.Close()
			playlistCache = redisCache
			logger.Info().Str("addr", cfg.Redis.Addr()).Msg("using Redis playlist cache")
		} else {
			memCache := memcache.NewCache()
			defer memCache.Stop()
			playlistCache = memCache
			logger.Info().Msg("using in-memory playlist cache")
		}
	}

	// Media store
	store, err := newMediaStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// Ingest lock
	var locker lock.Locker
	if redisCache, ok := playlistCache.(*rediscache.Cache); ok {
		locker = lock.NewRedisLocker(redisCache.Client())
	} else {
		locker = lock.NewMemoryLocker()
	}

	keys := storage.KeyConfig{
		SongsPrefix:    cfg.Media.SongsPrefix,
		AlbumArtPrefix: cfg.Media.AlbumArtPrefix,
	}

	// Metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		go serveMetrics(ctx, cfg.Metrics, m, logger)
	}

	// Services
	songService := service.NewSongService(dbResult.Repos.Song, logger)

	configOpts := []service.AppConfigOption{service.WithKeyConfig(keys)}
	if playlistCache != nil {
		configOpts = append(configOpts, service.WithPlaylistCache(playlistCache, cfg.Cache.TTL))
	}
	appConfigService := service.NewAppConfigService(dbResult.Repos.Song, dbResult.Repos.Config, logger, configOpts...)

	ingestService := service.NewIngestService(dbResult.Repos.Song, store, locker, logger,
		service.WithLockTTL(cfg.Ingest.LockTTL),
		service.WithHTTPClient(&http.Client{Timeout: cfg.Ingest.FetchTimeout}),
		service.WithInvalidator(appConfigService),
		service.WithIngestKeyConfig(keys),
		service.WithIngestMetrics(m),
	)

	if cfg.Ingest.Enabled {
		go ingestService.Run(ctx, cfg.Ingest.Interval)
	}

	// HTTP server
	router := handler.NewRouter(handler.RouterConfig{
		SongHandler:    handler.NewSongHandler(songService, logger),
		ConfigHandler:  handler.NewConfigHandler(appConfigService, logger),
		Database:       dbResult.Database,
		Metrics:        m,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newMediaStore picks the store matching the deployment: S3 in production,
// local filesystem when running against SQLite.
func newMediaStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.MediaStore, error) {
	if cfg.Database.IsEmbedded() && cfg.Media.Endpoint == "" {
		store, err := fsstore.NewStore("./data/media")
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", "./data/media").Msg("using filesystem media store")
		return store, nil
	}

	store, err := s3store.NewStore(ctx, s3store.Config{
		Region:   cfg.Media.Region,
		Bucket:   cfg.Media.Bucket,
		Endpoint: cfg.Media.Endpoint,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("bucket", cfg.Media.Bucket).Msg("using S3 media store")
	return store, nil
}

// serveMetrics runs the metrics endpoint on its own port.
func serveMetrics(ctx context.Context, cfg config.MetricsConfig, m *metrics.Metrics, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, m.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", cfg.Port).Str("path", cfg.Path).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server failed")
	}
}

// newLogger builds the root logger from config.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = cfg.TimeFormat

	logger := log.Logger.Level(level)
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger
}
