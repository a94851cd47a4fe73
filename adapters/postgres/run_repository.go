package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"resframe/domain/core"
	"resframe/domain/run"
	"resframe/ports"

	"github.com/jmoiron/sqlx"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new aggregation run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// Migrate creates the runs table if it does not exist
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS aggregation_runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		strategy TEXT NOT NULL,
		table_json JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create aggregation_runs table: %w", err)
	}
	return nil
}

type tablePayload struct {
	Entities []string    `json:"entities"`
	Columns  []string    `json:"columns"`
	Values   [][]float64 `json:"values"`
}

// Save inserts a run record
func (r *runRepository) Save(ctx context.Context, rec *run.Run) error {
	payload, err := json.Marshal(tablePayload{
		Entities: rec.Entities,
		Columns:  rec.Columns,
		Values:   rec.Values,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal run table: %w", err)
	}

	query := `INSERT INTO aggregation_runs (id, source, strategy, table_json, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, rec.ID, rec.Source, rec.Strategy, payload, rec.CreatedAt); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetByID retrieves a run record by its ID
func (r *runRepository) GetByID(ctx context.Context, id core.RunID) (*run.Run, error) {
	query := `SELECT id, source, strategy, table_json, created_at FROM aggregation_runs WHERE id = $1`
	rec, err := r.scanRun(r.db.QueryRowxContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	return rec, err
}

// List retrieves run records newest first
func (r *runRepository) List(ctx context.Context, limit, offset int) ([]*run.Run, error) {
	query := `SELECT id, source, strategy, table_json, created_at FROM aggregation_runs
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*run.Run
	for rows.Next() {
		rec, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *runRepository) scanRun(row rowScanner) (*run.Run, error) {
	var (
		rec     run.Run
		payload []byte
	)
	if err := row.Scan(&rec.ID, &rec.Source, &rec.Strategy, &payload, &rec.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	var table tablePayload
	if err := json.Unmarshal(payload, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run table: %w", err)
	}
	rec.Entities = table.Entities
	rec.Columns = table.Columns
	rec.Values = table.Values
	return &rec, nil
}
