package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.etcd.io/bbolt"

	"github.com/m3uhub/iptvd/internal/adapter/driven"
	"github.com/m3uhub/iptvd/internal/adapter/driver"
	"github.com/m3uhub/iptvd/internal/application"
	"github.com/m3uhub/iptvd/internal/playlist"
	port "github.com/m3uhub/iptvd/internal/port/driven"
)

type config struct {
	Port            string
	StorageBackend  string
	DBPath          string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	ClientURL       string
	LogLevel        slog.Level
	SecretKey       string
	TokenLifetime   time.Duration
	InsecureFetch   bool
}

func loadConfig() config {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	getenv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	logLevel := slog.LevelInfo
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		logLevel = slog.LevelDebug
	case "WARN":
		logLevel = slog.LevelWarn
	case "ERROR":
		logLevel = slog.LevelError
	}

	tokenLifetime := time.Hour
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			tokenLifetime = parsed
		}
	}

	return config{
		Port:            getenv("PORT", "3000"),
		StorageBackend:  strings.ToLower(getenv("STORAGE_BACKEND", "bolt")),
		DBPath:          getenv("DB_PATH", "iptv.db"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getenv("MONGO_DB", "iptv"),
		MongoCollection: getenv("MONGO_COLLECTION", "playlists"),
		ClientURL:       getenv("CLIENT_URL", "http://localhost:4200"),
		LogLevel:        logLevel,
		SecretKey:       getenv("SECRET_KEY", "YOUR-SECRET-KEY"),
		TokenLifetime:   tokenLifetime,
		InsecureFetch:   getenv("INSECURE_PLAYLIST_FETCH", "true") == "true",
	}
}

func main() {
	cfg := loadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("starting iptvd",
		"port", cfg.Port,
		"storage_backend", cfg.StorageBackend,
		"client_url", cfg.ClientURL,
		"log_level", cfg.LogLevel.String(),
		"token_lifetime", cfg.TokenLifetime,
	)

	// Select the storage backend once, at startup. It is not a runtime
	// switch: a running instance serves exactly one backend.
	var repo port.PlaylistRepository
	switch cfg.StorageBackend {
	case "bolt":
		db, err := bbolt.Open(cfg.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		repo, err = driven.NewPlaylistBoltRepository(db)
		if err != nil {
			log.Fatalf("failed to create playlist repository: %v", err)
		}
		logger.Info("bolt storage enabled", "db_path", cfg.DBPath)
	case "mongo":
		repo = driven.NewPlaylistMongoRepository(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
		logger.Info("mongo storage enabled", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
	case "disabled":
		logger.Info("storage is disabled, playlist routes will answer 503")
	default:
		log.Fatalf("unknown STORAGE_BACKEND %q (want bolt, mongo or disabled)", cfg.StorageBackend)
	}

	fetcher := driven.NewHTTPResourceFetcher(cfg.InsecureFetch)
	ingestService := application.NewIngestService(fetcher, playlist.NewNormalizer())

	var playlistService *application.PlaylistService
	if repo != nil {
		playlistService = application.NewPlaylistService(repo)
	}

	authority := driver.NewTokenAuthority(cfg.SecretKey, cfg.TokenLifetime, logger)

	router := driver.NewRouter(driver.Dependencies{
		Ingest:        ingestService,
		Playlists:     playlistService,
		Authority:     authority,
		AllowedOrigin: cfg.ClientURL,
		DBEnabled:     repo != nil,
		Logger:        logger,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if repo != nil {
		if err := repo.Close(ctx); err != nil {
			logger.Error("error closing storage", "error", err)
		}
	}

	logger.Info("server stopped")
}
