package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EmailRepository exposes the counts the cognition context derives its
// signals from. Implementations return zero counts, not errors, when the
// user has no rows.
type EmailRepository interface {
	// CountUnresolvedByBand returns unresolved record counts per band.
	CountUnresolvedByBand(ctx context.Context, userID uuid.UUID) (map[Band]int, error)

	// CountReceivedSince counts records received at or after the cutoff.
	CountReceivedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// CountResolvedToday counts records resolved on the given date.
	CountResolvedToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)

	// CountPreparedDraftsToday counts active drafts prepared on the given date.
	CountPreparedDraftsToday(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)
}
