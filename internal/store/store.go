// Package store persists pipeline stages as named JSON documents.
//
// A stage ("roster", "qualified", ...) is written whole and read whole;
// stages are the checkpoints a resumed batch starts from. Three backends
// share the Store interface: a directory of JSON files, a Postgres table
// and a SQLite table.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/albapepper/scoracle-quiz/internal/config"
	"github.com/albapepper/scoracle-quiz/internal/db"
)

// ErrNotFound is returned when a stage has never been saved.
var ErrNotFound = errors.New("store: stage not found")

// Store reads and writes stage documents.
type Store interface {
	// Load decodes the stage into v.
	Load(ctx context.Context, stage string, v any) error
	// Save replaces the stage with the JSON encoding of v.
	Save(ctx context.Context, stage string, v any) error
	// Stages lists saved stage names in lexical order.
	Stages(ctx context.Context) ([]string, error)
	Close() error
}

var stageName = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// ValidStage rejects names unusable as file names or keys.
func ValidStage(stage string) error {
	if !stageName.MatchString(stage) {
		return fmt.Errorf("invalid stage name %q", stage)
	}
	return nil
}

// Open creates the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("postgres store: %w", err)
		}
		logger.Info("stage store", "backend", "postgres")
		return NewPostgres(pool), nil
	case config.BackendSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		logger.Info("stage store", "backend", "sqlite", "path", cfg.SQLitePath)
		return s, nil
	default:
		s, err := NewFile(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		logger.Info("stage store", "backend", "file", "dir", cfg.DataDir)
		return s, nil
	}
}
