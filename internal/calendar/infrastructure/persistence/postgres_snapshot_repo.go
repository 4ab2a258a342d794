// Package persistence contains the PostgreSQL repositories for the
// calendar context.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/echo-labs/echo-core/internal/calendar/domain"
	schedulingDomain "github.com/echo-labs/echo-core/internal/scheduling/domain"
	sharedPersistence "github.com/echo-labs/echo-core/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSnapshotRepository implements domain.SnapshotRepository and
// domain.SnapshotWriter. One row per user and date; the timeline and
// deep-work windows are stored as JSONB since only this context reads
// them back.
type PostgresSnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSnapshotRepository(pool *pgxpool.Pool) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{pool: pool}
}

// FindByUserAndDate returns the day's snapshot, or (nil, nil) when the
// automations have not delivered one.
func (r *PostgresSnapshotRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DaySnapshot, error) {
	query := `
		SELECT user_id, date, timeline, deep_work_windows, insights, updated_at
		FROM day_snapshots
		WHERE user_id = $1
		  AND date = $2::date
	`

	execer := sharedPersistence.Executor(ctx, r.pool)

	var snapshot domain.DaySnapshot
	var timeline, windows, insights []byte
	err := execer.QueryRow(ctx, query, userID, date).Scan(
		&snapshot.UserID,
		&snapshot.Date,
		&timeline,
		&windows,
		&insights,
		&snapshot.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(timeline, &snapshot.Timeline); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(windows, &snapshot.DeepWorkWindows); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(insights, &snapshot.Insights); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Upsert replaces the stored snapshot for the user and date.
func (r *PostgresSnapshotRepository) Upsert(ctx context.Context, snapshot *domain.DaySnapshot) error {
	timeline, err := json.Marshal(normalizeTimeline(snapshot.Timeline))
	if err != nil {
		return err
	}
	windows, err := json.Marshal(normalizeWindows(snapshot.DeepWorkWindows))
	if err != nil {
		return err
	}
	insights, err := json.Marshal(snapshot.Insights)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO day_snapshots (
			user_id, date, timeline, deep_work_windows, insights, updated_at
		) VALUES ($1, $2::date, $3, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE SET
			timeline = EXCLUDED.timeline,
			deep_work_windows = EXCLUDED.deep_work_windows,
			insights = EXCLUDED.insights,
			updated_at = EXCLUDED.updated_at
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err = execer.Exec(ctx, query,
		snapshot.UserID,
		snapshot.Date,
		timeline,
		windows,
		insights,
		snapshot.UpdatedAt,
	)
	return err
}

// JSON null round-trips as a nil slice; store empty arrays instead so
// readers never see null.
func normalizeTimeline(timeline []schedulingDomain.BusyInterval) []schedulingDomain.BusyInterval {
	if timeline == nil {
		return []schedulingDomain.BusyInterval{}
	}
	return timeline
}

func normalizeWindows(windows []schedulingDomain.DeepWorkWindow) []schedulingDomain.DeepWorkWindow {
	if windows == nil {
		return []schedulingDomain.DeepWorkWindow{}
	}
	return windows
}
