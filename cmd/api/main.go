package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mediatracker/internal/auth"
	"mediatracker/internal/book"
	"mediatracker/internal/bookinfo"
	"mediatracker/internal/config"
	"mediatracker/internal/httpx"
	"mediatracker/internal/logging"
	"mediatracker/internal/movie"
	"mediatracker/internal/movieinfo"
	"mediatracker/internal/platform/cache"
	"mediatracker/internal/platform/openlibrary"
	"mediatracker/internal/platform/postgres"
	"mediatracker/internal/platform/tmdb"
	"mediatracker/internal/session"
	"mediatracker/internal/upload"
	"mediatracker/internal/user"
)

const (
	lookupCacheEntries = 1000
	upstreamRetries    = 3
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	pool, err := postgres.Open(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	bookCache, err := cache.New[bookinfo.Info](lookupCacheEntries, cfg.LookupCacheTTL)
	if err != nil {
		return err
	}
	defer bookCache.Close()
	movieCache, err := cache.New[movieinfo.Info](lookupCacheEntries, cfg.LookupCacheTTL)
	if err != nil {
		return err
	}
	defer movieCache.Close()

	uploads, err := upload.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		return err
	}

	sessionRepo := session.NewPostgresRepo(pool, cfg.DBTimeout)
	blacklistRepo := session.NewBlacklistPostgresRepo(pool, cfg.DBTimeout)

	userService := user.NewService(user.NewPostgresRepo(pool, cfg.DBTimeout))
	sessionService := session.NewService(sessionRepo, blacklistRepo)
	authService := auth.NewService(cfg.JWTSecret, userService, sessionService)

	if cfg.TMDbAPIKey == "" {
		logging.Warn().Msg("TMDB_API_KEY not set, movie lookups will be unavailable")
	}
	olClient := openlibrary.NewClient(cfg.OpenLibraryBaseURL, cfg.OpenLibraryUserAgent, 1, upstreamRetries)
	tmdbClient := tmdb.NewClient(cfg.TMDbBaseURL, cfg.TMDbAPIKey, 4, upstreamRetries)

	h := handlers{
		Auth:      auth.NewHTTPHandler(authService),
		Users:     user.NewHTTPHandler(userService),
		Sessions:  session.NewHTTPHandler(sessionService),
		Books:     book.NewHTTPHandler(book.NewService(book.NewPostgresRepo(pool, cfg.DBTimeout))),
		Movies:    movie.NewHTTPHandler(movie.NewService(movie.NewPostgresRepo(pool, cfg.DBTimeout))),
		BookInfo:  bookinfo.NewHTTPHandler(bookinfo.NewService(olClient, bookCache)),
		MovieInfo: movieinfo.NewHTTPHandler(movieinfo.NewService(tmdbClient, movieCache)),
		Upload:    upload.NewHTTPHandler(uploads, cfg.UploadMaxBytes),
	}

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx)
	go session.NewJanitor(sessionRepo, blacklistRepo, cfg.SessionCleanupInterval).Run(ctx)

	router := newRouter(h, routerConfig{
		JWTSecret:    cfg.JWTSecret,
		Blacklist:    sessionService,
		CORSOrigins:  cfg.CORSOrigins,
		EnableHSTS:   cfg.EnableHSTS,
		MaxBodyBytes: cfg.MaxBodyBytes,
		RateLimiter:  limiter,
		UploadDir:    uploads.Dir(),
		Ready:        pingDB(pool),
	})

	srv := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.AppAddr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func pingDB(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}
