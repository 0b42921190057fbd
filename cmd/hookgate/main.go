package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	hookgate "github.com/goliatone/go-hookgate"
	"github.com/goliatone/go-hookgate/core"
	"github.com/goliatone/go-hookgate/migrations"
	sqlstore "github.com/goliatone/go-hookgate/store/sql"
	httptransport "github.com/goliatone/go-hookgate/transport/http"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hookgate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, logger := glog.Resolve("hookgate.main", nil, nil)
	logger = glog.Ensure(logger)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := openPersistence(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer client.Close()

	store, err := sqlstore.NewStateStoreFromPersistence(client)
	if err != nil {
		return fmt.Errorf("build state store: %w", err)
	}

	service, err := hookgate.New(cfg,
		hookgate.WithLogger(logger),
		hookgate.WithStateStore(store),
	)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           httptransport.NewServer(service, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen, "connector", cfg.Connector.Kind)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func loadConfig(ctx context.Context) (core.Config, error) {
	provider := core.NewCfgxConfigProvider(core.EnvConfigLoader{})
	loaded, err := provider.Load(ctx, core.DefaultConfig())
	if err != nil {
		return core.Config{}, err
	}

	cfg, err := core.GoOptionsResolver{}.Resolve(core.DefaultConfig(), loaded, core.Config{})
	if err != nil {
		return core.Config{}, err
	}
	return cfg, cfg.Validate()
}

func openPersistence(ctx context.Context, dbCfg core.DatabaseConfig) (*persistence.Client, error) {
	var dialect schema.Dialect
	var migrationTarget string
	switch dbCfg.Driver {
	case "sqlite3":
		dialect = sqlitedialect.New()
		migrationTarget = migrations.DialectSQLite
	case "postgres":
		dialect = pgdialect.New()
		migrationTarget = migrations.DialectPostgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}

	sqlDB, err := sql.Open(dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbCfg.Driver, err)
	}
	if dbCfg.Driver == "sqlite3" {
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(dbCfg, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	_, err = migrations.Register(ctx, func(_ context.Context, target string, _ string, fsys fs.FS) error {
		if target != migrationTarget {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithValidationTargets(migrationTarget))
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("register migrations: %w", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return client, nil
}
