// Package server initializes and runs the journal backend application.
// It connects to PostgreSQL, optionally applies schema migrations, wires the
// services, handles graceful shutdown, and starts the HTTP server.
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

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/rosvit/journal-backend/internal/logging"
	"github.com/rosvit/journal-backend/internal/server/auth"
	"github.com/rosvit/journal-backend/internal/server/config"
	"github.com/rosvit/journal-backend/internal/server/httpapi"
	"github.com/rosvit/journal-backend/internal/server/repositories/repomanager"
	"github.com/rosvit/journal-backend/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	resolver       *auth.Resolver
	userService    *services.UserService
	journalService *services.JournalService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	if cfg.MigrateOnStart {
		if err := rm.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	params := auth.DefaultPasswordParams()
	params.Memory = cfg.Argon2Memory
	params.Time = cfg.Argon2Time
	params.Parallelism = cfg.Argon2Parallelism
	hasher := auth.NewPasswordHasher(params)

	authority := auth.NewTokenAuthority([]byte(cfg.SecretKey), cfg.TokenTTL)

	us, err := services.NewUserService(db, rm, hasher, authority)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("user service init error: %w", err)
	}
	js := services.NewJournalService(db, rm, cfg.DefaultPageSize, cfg.MaxPageSize)

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		resolver:       auth.NewResolver(authority),
		userService:    us,
		journalService: js,
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	loginRate := rate.Limit(float64(app.config.LoginRatePerMinute) / 60.0)

	s := httpapi.NewServer(
		app.config.Addr,
		app.logger,
		prometheus.NewRegistry(),
		app.resolver,
		app.userService,
		app.journalService,
		app.db,
		loginRate,
		app.config.LoginBurst,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

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
