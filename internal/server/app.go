// Package server wires the application together: storage, services and the
// HTTP endpoint, plus signal handling for graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/openmuse/openmuse/internal/logging"
	"github.com/openmuse/openmuse/internal/server/catalog"
	"github.com/openmuse/openmuse/internal/server/config"
	"github.com/openmuse/openmuse/internal/server/httpapi"
	"github.com/openmuse/openmuse/internal/server/repositories/credentials"
	"github.com/openmuse/openmuse/internal/server/repositories/repomanager"
	"github.com/openmuse/openmuse/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	session     *services.SessionService
	toolService *services.ToolService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	// Provider configs live in Postgres unless a Redis address is given.
	var credStore credentials.Repository = rm.Credentials(db)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		credStore = credentials.NewRedisRepository(client)
		logger.Info(ctx, "using redis for provider configs", "addr", cfg.RedisAddr)
	}

	defaults := catalog.DefaultProviderConfig()
	cat := catalog.Default(toolHandlers())

	us := services.NewUserService(rm.Users(db), cfg)
	cs := services.NewCredentialService(credStore, defaults, logger)
	ts := services.NewToolService(credStore, cat, defaults, logger, systemTools())
	ss := services.NewSessionService(us, cs, ts, cfg, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: us,
		session:     ss,
		toolService: ts,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.session)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	// Baseline tool scope for requests that carry no tenant overrides.
	if err := app.toolService.Reinitialize(ctx, ""); err != nil {
		app.logger.Error(ctx, err.Error())
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
