// Package persistence contains the PostgreSQL repositories for the
// inbox context.
package persistence

import (
	"context"
	"time"

	"github.com/echo-labs/echo-core/internal/inbox/domain"
	sharedPersistence "github.com/echo-labs/echo-core/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresEmailRepository implements domain.EmailRepository on the
// email_records table. The mail automation writes the rows; this side
// only counts them. Band classification happens in SQL with the same
// substring rules the domain uses, so counts and per-record
// classification cannot drift apart.
type PostgresEmailRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEmailRepository(pool *pgxpool.Pool) *PostgresEmailRepository {
	return &PostgresEmailRepository{pool: pool}
}

// bandExpr mirrors domain.ClassifyBand.
const bandExpr = `
	CASE
		WHEN lower(trim(category)) LIKE '%follow%' THEN 'follow_up'
		WHEN lower(trim(category)) LIKE '%info%'
		  OR lower(trim(category)) LIKE '%promo%'
		  OR lower(trim(category)) LIKE '%newsletter%'
		  OR lower(trim(category)) = 'informational' THEN 'noise'
		ELSE 'action'
	END
`

// CountUnresolvedByBand returns unresolved record counts per band. Bands
// with no rows are absent from the map.
func (r *PostgresEmailRepository) CountUnresolvedByBand(ctx context.Context, userID uuid.UUID) (map[domain.Band]int, error) {
	query := `
		SELECT ` + bandExpr + ` AS band, COUNT(*)
		FROM email_records
		WHERE user_id = $1
		  AND status = 'unresolved'
		GROUP BY band
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Band]int)
	for rows.Next() {
		var band string
		var count int
		if err := rows.Scan(&band, &count); err != nil {
			return nil, err
		}
		counts[domain.Band(band)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// CountReceivedSince counts records received at or after the cutoff.
func (r *PostgresEmailRepository) CountReceivedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM email_records
		WHERE user_id = $1
		  AND received_at >= $2
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	var count int
	err := execer.QueryRow(ctx, query, userID, since).Scan(&count)
	return count, err
}

// CountResolvedToday counts records resolved on the given date.
func (r *PostgresEmailRepository) CountResolvedToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM email_records
		WHERE user_id = $1
		  AND status = 'resolved'
		  AND resolved_at::date = $2::date
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	var count int
	err := execer.QueryRow(ctx, query, userID, day).Scan(&count)
	return count, err
}

// CountPreparedDraftsToday counts active drafts prepared on the given date.
func (r *PostgresEmailRepository) CountPreparedDraftsToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM email_records
		WHERE user_id = $1
		  AND status = 'drafted'
		  AND drafted_at::date = $2::date
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	var count int
	err := execer.QueryRow(ctx, query, userID, day).Scan(&count)
	return count, err
}
