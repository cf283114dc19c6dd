package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/massitfab/marketplace/internal/cache"
	"github.com/massitfab/marketplace/internal/config"
	"github.com/massitfab/marketplace/internal/events"
	"github.com/massitfab/marketplace/internal/httpserver"
	"github.com/massitfab/marketplace/internal/repo"
	"github.com/massitfab/marketplace/internal/service"
	"github.com/massitfab/marketplace/internal/storage"
	"github.com/massitfab/marketplace/pkg/authclient"
	pkgdb "github.com/massitfab/marketplace/pkg/db"
	"github.com/massitfab/marketplace/pkg/logging"
	loggingmw "github.com/massitfab/marketplace/pkg/middleware/logging"
	"github.com/massitfab/marketplace/pkg/tokens"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), loadConfig())
	},
}

func serve(ctx context.Context, cfg config.Config) error {
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DatabaseURL, pkgdb.DefaultPool())
	cancel()
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer func() {
		if err := pkgdb.Close(db); err != nil {
			logger.Warn("db close error", "error", err)
		}
	}()

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	productCache, closeCache := newCache(cfg, logger)
	defer closeCache()
	publisher, closeEvents := newPublisher(cfg, logger)
	defer closeEvents()

	r := repo.New(db)
	deps := &httpserver.Deps{
		Profile:  &httpserver.ProfileHTTP{Svc: &service.ProfileService{Repo: r, Store: store}},
		Product:  &httpserver.ProductHTTP{Svc: &service.ProductService{Repo: r, Store: store, Cache: productCache, Events: publisher}},
		Wishlist: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: r, Events: publisher}},
		Review:   &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r, Events: publisher}},
		Cart:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: publisher}},
		Verifier: verifier,
		DB:       r,
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpserver.NewValidator()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: cfg.RequestTimeout}))
	e.Static("/public", cfg.MediaRoot+"/public")

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-stop:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// newVerifier prefers the remote auth service and falls back to local JWT checks.
func newVerifier(cfg config.Config) (tokens.Verifier, error) {
	if cfg.AuthURL != "" {
		return authclient.NewClient(cfg.AuthURL), nil
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("either AUTH_URL or JWT_SECRET must be set")
	}
	return tokens.NewJWTVerifier(cfg.JWTSecret), nil
}

func newStore(cfg config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "cloudinary":
		return storage.NewCloudinaryStore(cfg.CloudinaryURL, "public/img")
	case "local", "":
		return storage.NewLocalStore(cfg.MediaRoot)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func newCache(cfg config.Config, logger *slog.Logger) (cache.ProductCache, func()) {
	if cfg.RedisAddr == "" {
		return cache.Nop{}, func() {}
	}
	rc, err := cache.NewRedis(cache.RedisConfig{Addr: cfg.RedisAddr, TTL: cfg.CacheTTL, Logger: logger})
	if err != nil {
		logger.Warn("product cache disabled", "error", err)
		return cache.Nop{}, func() {}
	}
	return rc, func() { _ = rc.Close() }
}

func newPublisher(cfg config.Config, logger *slog.Logger) (events.Publisher, func()) {
	var (
		pubs    events.Multi
		closers []func()
	)
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("kafka publisher disabled", "error", err)
		} else {
			pubs = append(pubs, kp)
			closers = append(closers, func() {
				if err := kp.Close(); err != nil {
					logger.Warn("kafka close error", "error", err)
				}
			})
		}
	}
	if cfg.ESURL != "" {
		es, err := events.NewESClient(events.ESConfig{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
		if err != nil {
			logger.Warn("search indexer disabled", "error", err)
		} else {
			pubs = append(pubs, events.NewIndexer(es, cfg.ESIndex))
		}
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if len(pubs) == 0 {
		return events.Nop{}, closeAll
	}
	return pubs, closeAll
}
