package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lendfast/appform/types"
)

// ErrNotFound is returned when no application row matches the given id.
var ErrNotFound = errors.New("application not found")

// UpsertApplication inserts the application document, overwriting the data of
// an existing row with the same id. Rows are never deleted by this service.
func UpsertApplication(ctx context.Context, id string, app *types.Application) (*types.ApplicationRecord, error) {
	data, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal application: %w", err)
	}

	row := DB.QueryRowContext(ctx,
		`INSERT INTO applications (id, data, created_at, updated_at)
		 VALUES ($1, $2, NOW(), NOW())
		 ON CONFLICT (id) DO UPDATE
		   SET data = EXCLUDED.data,
		       updated_at = NOW()
		 RETURNING id, data, created_at, updated_at`,
		id, data,
	)
	return scanApplication(row)
}

// UpdateApplication replaces the data of an existing application row.
func UpdateApplication(ctx context.Context, id string, app *types.Application) (*types.ApplicationRecord, error) {
	data, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal application: %w", err)
	}

	row := DB.QueryRowContext(ctx,
		`UPDATE applications SET data = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, data, created_at, updated_at`,
		id, data,
	)
	return scanApplication(row)
}

// GetApplication fetches one application row by id.
func GetApplication(ctx context.Context, id string) (*types.ApplicationRecord, error) {
	row := DB.QueryRowContext(ctx,
		`SELECT id, data, created_at, updated_at FROM applications WHERE id = $1`,
		id,
	)
	return scanApplication(row)
}

func scanApplication(row *sql.Row) (*types.ApplicationRecord, error) {
	var (
		record types.ApplicationRecord
		data   []byte
	)
	if err := row.Scan(&record.ID, &data, &record.CreatedAt, &record.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}
	if err := json.Unmarshal(data, &record.Application); err != nil {
		return nil, fmt.Errorf("failed to unmarshal application data: %w", err)
	}
	return &record, nil
}

// CompletedSteps returns the names of submission steps already recorded for
// the application.
func CompletedSteps(ctx context.Context, applicationID string) (map[string]time.Time, error) {
	rows, err := DB.QueryContext(ctx,
		`SELECT step, completed_at FROM submission_steps WHERE application_id = $1`,
		applicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission steps: %w", err)
	}
	defer rows.Close()

	steps := make(map[string]time.Time)
	for rows.Next() {
		var (
			step        string
			completedAt time.Time
		)
		if err := rows.Scan(&step, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission step: %w", err)
		}
		steps[step] = completedAt
	}
	return steps, rows.Err()
}

// MarkStepCompleted records a submission step as done for the application.
func MarkStepCompleted(ctx context.Context, applicationID, step string) error {
	_, err := DB.ExecContext(ctx,
		`INSERT INTO submission_steps (application_id, step, completed_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (application_id, step) DO UPDATE SET completed_at = NOW()`,
		applicationID, step,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission step: %w", err)
	}
	return nil
}

// ClearSteps removes the recorded steps for an application so a fresh
// submission runs every step again.
func ClearSteps(ctx context.Context, applicationID string) error {
	_, err := DB.ExecContext(ctx,
		`DELETE FROM submission_steps WHERE application_id = $1`,
		applicationID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear submission steps: %w", err)
	}
	return nil
}
