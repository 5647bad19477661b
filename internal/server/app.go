// Package server wires the application together: configuration, logging,
// the database pool, the startup schema gate and the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/httpapi"
	usersrepo "github.com/dmitrijs2005/authgate/internal/server/repositories/users"
	"github.com/dmitrijs2005/authgate/internal/server/schema"
	"github.com/dmitrijs2005/authgate/internal/server/users"
)

// maxDBConnections bounds the pool; requests beyond capacity queue for a
// connection rather than failing.
const maxDBConnections = 12

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	zl, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	logger := logging.NewZapLogger(zl)

	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenTTL())
	repo := usersrepo.NewPostgresRepository(db)
	accounts := users.NewService(repo, tokens)
	httpServer := httpapi.NewServer(cfg.Addr(), logger, accounts, tokens)

	return &App{config: cfg, logger: logger, db: db, http: httpServer}, nil
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db.SetMaxOpenConns(maxDBConnections)
	db.SetMaxIdleConns(maxDBConnections)

	return db, nil
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

// Run gates startup on the schema guard and then serves until a signal
// arrives or the server fails. A guard or connectivity failure is returned
// to the caller and terminates the process before any traffic is accepted.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	if app.config.SecretIsEphemeral {
		app.logger.Warn(ctx, "JWT_SECRET is not set; generated an ephemeral secret for this process. "+
			"All issued tokens become invalid after restart")
	}

	if err := schema.Ensure(ctx, app.db, app.logger); err != nil {
		return err
	}

	app.initSignalHandler(cancelFunc)

	if err := app.http.Run(ctx); err != nil {
		return err
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	return nil
}
