// Package persistence contains the PostgreSQL repositories for the
// cognition context.
package persistence

import (
	"context"
	"errors"

	"github.com/echo-labs/echo-core/internal/cognition/domain"
	sharedPersistence "github.com/echo-labs/echo-core/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStateRepository implements domain.StateRepository on the
// cognitive_states table. One row per user; recomputes replace it.
type PostgresStateRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStateRepository(pool *pgxpool.Pool) *PostgresStateRepository {
	return &PostgresStateRepository{pool: pool}
}

// Upsert writes the record keyed by user.
func (r *PostgresStateRepository) Upsert(ctx context.Context, record *domain.StateRecord) error {
	query := `
		INSERT INTO cognitive_states (
			user_id, state, drivers, instruction, relief_statement,
			confidence, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			state = EXCLUDED.state,
			drivers = EXCLUDED.drivers,
			instruction = EXCLUDED.instruction,
			relief_statement = EXCLUDED.relief_statement,
			confidence = EXCLUDED.confidence,
			computed_at = EXCLUDED.computed_at
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		record.UserID,
		string(record.State),
		record.Drivers,
		record.Instruction,
		record.Relief,
		record.Confidence,
		record.ComputedAt,
	)
	return err
}

// GetLatest returns the stored record, or (nil, nil) when the user has
// never been classified.
func (r *PostgresStateRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*domain.StateRecord, error) {
	query := `
		SELECT user_id, state, drivers, instruction, relief_statement,
		       confidence, computed_at
		FROM cognitive_states
		WHERE user_id = $1
	`

	execer := sharedPersistence.Executor(ctx, r.pool)

	var record domain.StateRecord
	var state string
	err := execer.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&state,
		&record.Drivers,
		&record.Instruction,
		&record.Relief,
		&record.Confidence,
		&record.ComputedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record.State = domain.State(state)
	return &record, nil
}
