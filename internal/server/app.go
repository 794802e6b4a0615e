// Package server initializes and runs the main application server.
// It wires the configured metadata store, blob storage and identity
// provider into the HTTP endpoint and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/sheetglance/internal/logging"
	"github.com/dmitrijs2005/sheetglance/internal/server/blob"
	"github.com/dmitrijs2005/sheetglance/internal/server/config"
	"github.com/dmitrijs2005/sheetglance/internal/server/httpapi"
	"github.com/dmitrijs2005/sheetglance/internal/server/identity"
	"github.com/dmitrijs2005/sheetglance/internal/server/kvstore"
	"github.com/dmitrijs2005/sheetglance/internal/server/migrations"
	"github.com/dmitrijs2005/sheetglance/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
	db     *sql.DB
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := newLogger(c.LogBackend)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if c.MetadataBackend == "postgres" || c.IdentityMode == "local" {
		db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := migrations.Run(ctx, db); err != nil {
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	}

	store, err := newMetadataStore(c, db)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.NewS3Store(ctx, blob.S3Config{
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("blob storage init error: %w", err)
	}

	provider, err := newIdentityProvider(c, db)
	if err != nil {
		return nil, err
	}

	files := services.NewFileService(store, blobs, logger)
	insights := services.NewInsightService(store, services.StubGenerator{}, logger)
	charts := services.NewChartService(store, blobs, services.StubExtractor{}, logger)

	srv := httpapi.NewServer(provider, files, insights, charts, logger)

	return &App{config: c, logger: logger, server: srv, db: db}, nil
}

func newLogger(backend string) (logging.Logger, error) {
	switch backend {
	case "zap":
		l, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("zap init error: %w", err)
		}
		return logging.NewZapLogger(l), nil
	case "slog", "":
		return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))), nil
	default:
		return nil, fmt.Errorf("unknown log backend: %s", backend)
	}
}

func newMetadataStore(c *config.Config, db *sql.DB) (kvstore.Store, error) {
	switch c.MetadataBackend {
	case "postgres":
		return kvstore.NewPostgresStore(db), nil
	case "redis":
		return kvstore.NewRedisStore(redis.NewClient(&redis.Options{Addr: c.RedisAddr})), nil
	case "memory":
		return kvstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown metadata backend: %s", c.MetadataBackend)
	}
}

func newIdentityProvider(c *config.Config, db *sql.DB) (identity.Provider, error) {
	switch c.IdentityMode {
	case "local":
		users := identity.NewPostgresUsersRepository(db)
		return identity.NewLocalProvider(users, c.SecretKey, c.AccessTokenValidityDuration), nil
	case "gotrue":
		return identity.NewGoTrueProvider(c.IdentityBaseURL, c.IdentityServiceKey), nil
	default:
		return nil, fmt.Errorf("unknown identity mode: %s", c.IdentityMode)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	httpServer := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.server,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, err.Error())
		}
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}
}
