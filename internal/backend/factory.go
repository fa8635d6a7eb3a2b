package backend

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/config"
	"financas/internal/storage/memory"
	"financas/internal/storage/mongo"
	"financas/internal/storage/sqlite"
)

// DefaultFactory builds the backend selected by the application config.
type DefaultFactory struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *DefaultFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{cfg: cfg, logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context) (*Result, error) {
	t := Type(f.cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", f.cfg.DataBackend)
	}

	switch t {
	case Mongo:
		return f.createMongoBackend(ctx)
	case SQLite:
		return f.createSQLiteBackend()
	default:
		return f.createMemoryBackend()
	}
}

func (f *DefaultFactory) createMongoBackend(ctx context.Context) (*Result, error) {
	uri := f.cfg.MongoURI
	if uri == "" {
		uri = mongo.BuildURI(f.cfg.MongoUsername, f.cfg.MongoPassword, f.cfg.MongoCluster)
	}

	repo, err := mongo.NewRepository(ctx, uri, f.cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("initialize mongo repository: %w", err)
	}

	f.logger.Info("Initialized MongoDB backend", "database", f.cfg.MongoDatabase)
	return &Result{Store: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createSQLiteBackend() (*Result, error) {
	repo, err := sqlite.NewRepository(f.cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", f.cfg.SQLiteDBPath)
	return &Result{Store: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	f.logger.Info("Initialized memory backend")
	return &Result{Store: memory.NewStore(), Cleanup: nil}, nil
}
