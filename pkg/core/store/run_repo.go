package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RunRepo archives completed report runs. Each run stores the report name,
// its soft advisories and the full result payload as one JSONB blob, so
// past runs can be diffed without re-reading the source dataset.
type RunRepo struct{}

// NewRunRepo creates a repository instance.
func NewRunRepo() *RunRepo {
	return &RunRepo{}
}

// Schema assumption (managed outside this package):
//
//	CREATE TABLE IF NOT EXISTS report_runs (
//	  id UUID PRIMARY KEY,
//	  report TEXT NOT NULL,
//	  warnings JSONB,
//	  payload JSONB NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL
//	);

// SaveRun inserts one run and returns its generated ID.
func (r *RunRepo) SaveRun(ctx context.Context, report string, warnings []string, payload interface{}) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run payload: %w", err)
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return "", fmt.Errorf("failed to marshal warnings: %w", err)
	}

	id := uuid.New().String()
	query := `
		INSERT INTO report_runs (id, report, warnings, payload, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := pool.Exec(ctx, query, id, report, warningsJSON, payloadJSON, time.Now()); err != nil {
		return "", fmt.Errorf("failed to save run for %s: %w", report, err)
	}
	return id, nil
}

// LoadLatest retrieves the most recent run payload for a report into dst.
func (r *RunRepo) LoadLatest(ctx context.Context, report string, dst interface{}) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT id, payload FROM report_runs
		WHERE report = $1
		ORDER BY created_at DESC
		LIMIT 1;
	`
	var id string
	var payload []byte
	err := pool.QueryRow(ctx, query, report).Scan(&id, &payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", fmt.Errorf("no archived runs for report %s", report)
		}
		return "", fmt.Errorf("failed to load run for %s: %w", report, err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return "", fmt.Errorf("failed to unmarshal run payload: %w", err)
	}
	return id, nil
}
