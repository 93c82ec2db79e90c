package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LevelWeightRepository handles per-level spawn weight rows.
// Rows override both the level set and the configured overrides.
type LevelWeightRepository struct {
	pool *pgxpool.Pool
}

// NewLevelWeightRepository creates a new level weight repository
func NewLevelWeightRepository(pool *pgxpool.Pool) *LevelWeightRepository {
	return &LevelWeightRepository{pool: pool}
}

// LoadAll returns every row keyed by lowercase level name.
func (r *LevelWeightRepository) LoadAll(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT level_name, weight FROM hunter_level_weights ORDER BY level_name`)
	if err != nil {
		return nil, fmt.Errorf("loading level weights: %w", err)
	}
	defer rows.Close()

	weights := make(map[string]int)
	for rows.Next() {
		var (
			name   string
			weight int32
		)
		if err := rows.Scan(&name, &weight); err != nil {
			return nil, fmt.Errorf("scanning level weight row: %w", err)
		}
		weights[strings.ToLower(name)] = int(weight)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating level weight rows: %w", err)
	}
	return weights, nil
}

// Upsert stores the weight of one level.
func (r *LevelWeightRepository) Upsert(ctx context.Context, level string, weight int) error {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return fmt.Errorf("upserting level weight: empty level name")
	}
	if weight < 0 {
		return fmt.Errorf("upserting level weight %q: negative weight %d", level, weight)
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO hunter_level_weights (level_name, weight) VALUES ($1, $2)
		 ON CONFLICT (level_name) DO UPDATE SET weight = EXCLUDED.weight, updated_at = now()`,
		level, weight,
	)
	if err != nil {
		return fmt.Errorf("upserting level weight %q: %w", level, err)
	}
	return nil
}

// Delete removes the row of one level.
func (r *LevelWeightRepository) Delete(ctx context.Context, level string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM hunter_level_weights WHERE level_name = $1`,
		strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("deleting level weight %q: %w", level, err)
	}
	return nil
}
