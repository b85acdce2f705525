package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/scoracle-quiz/internal/db"
)

// Postgres keeps stages as JSONB rows, using the pool's prepared statements.
type Postgres struct {
	pool *db.Pool
}

func NewPostgres(pool *db.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Load(ctx context.Context, stage string, v any) error {
	if err := ValidStage(stage); err != nil {
		return err
	}
	var data []byte
	err := p.pool.QueryRow(ctx, "stage_load", stage).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", stage, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", stage, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", stage, err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, stage string, v any) error {
	if err := ValidStage(stage); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", stage, err)
	}
	if _, err := p.pool.Exec(ctx, "stage_save", stage, json.RawMessage(data)); err != nil {
		return fmt.Errorf("save %s: %w", stage, err)
	}
	return nil
}

func (p *Postgres) Stages(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, "stage_list")
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	stages, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	return stages, nil
}

// HealthCheck pings the database.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	return p.pool.HealthCheck(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
