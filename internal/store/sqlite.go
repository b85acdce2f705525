package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/albapepper/scoracle-quiz/internal/config"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS ` + config.StagesTable + ` (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLite keeps stages as rows of a single table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared and serializes
	// writers
	database.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := database.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			database.Close()
			return nil, fmt.Errorf("enable wal: %w", err)
		}
	}
	if _, err := database.ExecContext(ctx, sqliteSchema); err != nil {
		database.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: database}, nil
}

func (s *SQLite) Load(ctx context.Context, stage string, v any) error {
	if err := ValidStage(stage); err != nil {
		return err
	}
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM "+config.StagesTable+" WHERE name = ?", stage,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", stage, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", stage, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decode %s: %w", stage, err)
	}
	return nil
}

func (s *SQLite) Save(ctx context.Context, stage string, v any) error {
	if err := ValidStage(stage); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", stage, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO "+config.StagesTable+" (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) "+
			"ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP",
		stage, string(data),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", stage, err)
	}
	return nil
}

func (s *SQLite) Stages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM "+config.StagesTable+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var stages []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list stages: %w", err)
		}
		stages = append(stages, name)
	}
	return stages, rows.Err()
}

// HealthCheck pings the database.
func (s *SQLite) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error { return s.db.Close() }
