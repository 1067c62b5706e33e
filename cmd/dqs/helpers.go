package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Veraticus/dqscore/internal/config"
	"github.com/Veraticus/dqscore/internal/dimensions"
	"github.com/Veraticus/dqscore/internal/engine"
	"github.com/Veraticus/dqscore/internal/loader"
	"github.com/Veraticus/dqscore/internal/scoring"
	"github.com/Veraticus/dqscore/internal/storage"
	"github.com/spf13/viper"
)

// currentConfig returns the configuration resolved by initConfig, or the
// defaults when a command runs without the root pre-run hook.
func currentConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	return config.Load(viper.New())
}

func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func newAssessor(cfg *config.Config, opts ...engine.Option) (*engine.Assessor, error) {
	calc, err := dimensions.New(cfg.Dimensions)
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.New(cfg.Weights)
	if err != nil {
		return nil, err
	}
	opts = append([]engine.Option{engine.WithLowThreshold(cfg.LowThreshold)}, opts...)
	return engine.NewAssessor(calc, scorer, opts...), nil
}

// loadNamed reads the CSV at path. An empty path yields a nil dataset.
func loadNamed(path string) (*engine.NamedDataset, error) {
	if path == "" {
		return nil, nil
	}
	ds, err := loader.LoadFile(config.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	return &engine.NamedDataset{
		Data:   ds,
		Name:   filepath.Base(path),
		Source: path,
	}, nil
}
