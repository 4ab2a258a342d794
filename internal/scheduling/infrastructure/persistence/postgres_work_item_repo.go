// Package persistence contains the PostgreSQL repositories for the
// scheduling context.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/echo-labs/echo-core/internal/scheduling/domain"
	sharedPersistence "github.com/echo-labs/echo-core/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresWorkItemRepository implements domain.WorkItemRepository.
type PostgresWorkItemRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresWorkItemRepository(pool *pgxpool.Pool) *PostgresWorkItemRepository {
	return &PostgresWorkItemRepository{pool: pool}
}

type workItemRow struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Title            string
	EstimatedMinutes int
	Deadline         *time.Time
	SuggestedStart   *time.Time
	SuggestedEnd     *time.Time
	SuggestedReason  *string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Save inserts or updates the item's base fields. Placement columns are
// owned by SavePlacement and never touched here.
func (r *PostgresWorkItemRepository) Save(ctx context.Context, item *domain.WorkItem) error {
	query := `
		INSERT INTO work_items (
			id, user_id, title, estimated_minutes, deadline, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			estimated_minutes = EXCLUDED.estimated_minutes,
			deadline = EXCLUDED.deadline,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		item.ID(),
		item.UserID(),
		item.Title(),
		item.EstimatedMinutes(),
		item.Deadline(),
		string(item.Status()),
		item.CreatedAt(),
		item.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a work item. Returns (nil, nil) when absent.
func (r *PostgresWorkItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkItem, error) {
	query := `
		SELECT id, user_id, title, estimated_minutes, deadline,
		       suggested_start, suggested_end, suggested_reason, status,
		       created_at, updated_at
		FROM work_items
		WHERE id = $1
	`

	execer := sharedPersistence.Executor(ctx, r.pool)

	var row workItemRow
	err := execer.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.UserID,
		&row.Title,
		&row.EstimatedMinutes,
		&row.Deadline,
		&row.SuggestedStart,
		&row.SuggestedEnd,
		&row.SuggestedReason,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rowToWorkItem(row), nil
}

// SavePlacement writes the placement only when the stored row has none.
// The condition makes the write a compare-and-swap: of two concurrent
// suggestions, exactly one lands.
func (r *PostgresWorkItemRepository) SavePlacement(ctx context.Context, item *domain.WorkItem) (bool, error) {
	query := `
		UPDATE work_items
		SET suggested_start = $2,
		    suggested_end = $3,
		    suggested_reason = $4,
		    updated_at = $5
		WHERE id = $1
		  AND status = 'suggested'
		  AND suggested_start IS NULL
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	tag, err := execer.Exec(ctx, query,
		item.ID(),
		item.SuggestedStart(),
		item.SuggestedEnd(),
		string(item.SuggestedReason()),
		item.UpdatedAt(),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatus records the user's defend/dismiss decision.
func (r *PostgresWorkItemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus) error {
	query := `UPDATE work_items SET status = $2, updated_at = NOW() WHERE id = $1`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query, id, string(status))
	return err
}

func rowToWorkItem(row workItemRow) *domain.WorkItem {
	var reason domain.BlockReason
	if row.SuggestedReason != nil {
		reason = domain.BlockReason(*row.SuggestedReason)
	}
	return domain.RehydrateWorkItem(
		row.ID,
		row.UserID,
		row.Title,
		row.EstimatedMinutes,
		row.Deadline,
		row.SuggestedStart,
		row.SuggestedEnd,
		reason,
		domain.ItemStatus(row.Status),
		row.CreatedAt,
		row.UpdatedAt,
	)
}
