package commands

import (
	"context"
	"sync"
	"testing"
	"time"

	calendarDomain "github.com/echo-labs/echo-core/internal/calendar/domain"
	"github.com/echo-labs/echo-core/internal/scheduling/application/services"
	"github.com/echo-labs/echo-core/internal/scheduling/domain"
	"github.com/echo-labs/echo-core/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopUnitOfWork struct{}

func (noopUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (noopUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (noopUnitOfWork) Rollback(ctx context.Context) error                 { return nil }

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.WorkItem

	// beforeSavePlacement simulates a concurrent writer landing between
	// the handler's read and its conditional write.
	beforeSavePlacement func()
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*domain.WorkItem)}
}

func (r *fakeItemRepo) Save(ctx context.Context, item *domain.WorkItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID()] = item
	return nil
}

func (r *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return item, nil
}

// SavePlacement mirrors the conditional UPDATE: the write lands only
// when the stored row still has no placement.
func (r *fakeItemRepo) SavePlacement(ctx context.Context, item *domain.WorkItem) (bool, error) {
	if r.beforeSavePlacement != nil {
		r.beforeSavePlacement()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID()]
	if !ok {
		return false, nil
	}
	if stored != item && stored.HasPlacement() {
		return false, nil
	}
	r.items[item.ID()] = item
	return true, nil
}

func (r *fakeItemRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus) error {
	return nil
}

type fakeSnapshotRepo struct {
	snapshot *calendarDomain.DaySnapshot
}

func (r *fakeSnapshotRepo) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*calendarDomain.DaySnapshot, error) {
	return r.snapshot, nil
}

func fixedSuggester(now time.Time) *services.BlockSuggester {
	return services.NewBlockSuggester(services.DefaultSuggesterConfig()).
		WithClock(func() time.Time { return now })
}

func day(hour, minute int) time.Time {
	return time.Date(2025, 3, 12, hour, minute, 0, 0, time.UTC)
}

func TestSuggestBlockHandler_ComputesAndStoresPlacement(t *testing.T) {
	now := day(8, 30)
	userID := uuid.New()
	item, err := domain.NewWorkItem(userID, "Write quarterly plan", 60, nil)
	require.NoError(t, err)

	itemRepo := newFakeItemRepo()
	require.NoError(t, itemRepo.Save(context.Background(), item))

	snapshots := &fakeSnapshotRepo{
		snapshot: &calendarDomain.DaySnapshot{
			UserID: userID,
			Date:   now,
			DeepWorkWindows: []domain.DeepWorkWindow{
				{Start: day(9, 0), End: day(11, 0), Minutes: 120},
			},
		},
	}
	outboxRepo := outbox.NewInMemoryRepository()
	handler := NewSuggestBlockHandler(itemRepo, snapshots, fixedSuggester(now), outboxRepo, noopUnitOfWork{})

	result, err := handler.Handle(context.Background(), SuggestBlockCommand{ItemID: item.ID(), UserID: userID})
	require.NoError(t, err)

	assert.True(t, result.Computed)
	require.NotNil(t, result.Block)
	assert.Equal(t, day(9, 0), result.Block.Start)
	assert.Equal(t, day(10, 0), result.Block.End)
	assert.Equal(t, domain.ReasonDeepWork, result.Block.Reason)

	stored, err := itemRepo.FindByID(context.Background(), item.ID())
	require.NoError(t, err)
	assert.True(t, stored.HasPlacement())

	pending, err := outboxRepo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "scheduling.block.suggested", pending[0].RoutingKey)
}

func TestSuggestBlockHandler_StoredPlacementIsNeverRecomputed(t *testing.T) {
	now := day(8, 30)
	userID := uuid.New()
	item, err := domain.NewWorkItem(userID, "Write quarterly plan", 60, nil)
	require.NoError(t, err)

	itemRepo := newFakeItemRepo()
	require.NoError(t, itemRepo.Save(context.Background(), item))

	snapshots := &fakeSnapshotRepo{
		snapshot: &calendarDomain.DaySnapshot{
			DeepWorkWindows: []domain.DeepWorkWindow{
				{Start: day(9, 0), End: day(11, 0), Minutes: 120},
			},
		},
	}
	outboxRepo := outbox.NewInMemoryRepository()
	handler := NewSuggestBlockHandler(itemRepo, snapshots, fixedSuggester(now), outboxRepo, noopUnitOfWork{})

	first, err := handler.Handle(context.Background(), SuggestBlockCommand{ItemID: item.ID(), UserID: userID})
	require.NoError(t, err)
	require.True(t, first.Computed)

	// The calendar changing afterwards must not move the stored block.
	snapshots.snapshot = &calendarDomain.DaySnapshot{
		DeepWorkWindows: []domain.DeepWorkWindow{
			{Start: day(14, 0), End: day(16, 0), Minutes: 120},
		},
	}

	second, err := handler.Handle(context.Background(), SuggestBlockCommand{ItemID: item.ID(), UserID: userID})
	require.NoError(t, err)
	assert.False(t, second.Computed)
	assert.Equal(t, first.Block, second.Block)

	pending, err := outboxRepo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSuggestBlockHandler_MissingSnapshotMeansOpenDay(t *testing.T) {
	now := day(8, 30)
	userID := uuid.New()
	item, err := domain.NewWorkItem(userID, "Deep review", 90, nil)
	require.NoError(t, err)

	itemRepo := newFakeItemRepo()
	require.NoError(t, itemRepo.Save(context.Background(), item))

	handler := NewSuggestBlockHandler(itemRepo, &fakeSnapshotRepo{}, fixedSuggester(now),
		outbox.NewInMemoryRepository(), noopUnitOfWork{})

	result, err := handler.Handle(context.Background(), SuggestBlockCommand{ItemID: item.ID(), UserID: userID})
	require.NoError(t, err)

	require.NotNil(t, result.Block)
	assert.Equal(t, day(9, 0), result.Block.Start)
	assert.Equal(t, domain.ReasonQuietGap, result.Block.Reason)
}

func TestSuggestBlockHandler_NoFeasiblePlacement(t *testing.T) {
	now := day(8, 30)
	userID := uuid.New()
	item, err := domain.NewWorkItem(userID, "All-day workshop prep", 60, nil)
	require.NoError(t, err)

	itemRepo := newFakeItemRepo()
	require.NoError(t, itemRepo.Save(context.Background(), item))

	// The whole working frame is busy until past the deadline.
	deadline := day(17, 30)
	itemWithDeadline := domain.RehydrateWorkItem(
		item.ID(), userID, item.Title(), item.EstimatedMinutes(), &deadline,
		nil, nil, "", domain.StatusSuggested, item.CreatedAt(), item.UpdatedAt(),
	)
	require.NoError(t, itemRepo.Save(context.Background(), itemWithDeadline))

	snapshots := &fakeSnapshotRepo{
		snapshot: &calendarDomain.DaySnapshot{
			Timeline: []domain.BusyInterval{
				{Start: day(9, 0), End: day(17, 30)},
			},
		},
	}
	outboxRepo := outbox.NewInMemoryRepository()
	handler := NewSuggestBlockHandler(itemRepo, snapshots, fixedSuggester(now), outboxRepo, noopUnitOfWork{})

	result, err := handler.Handle(context.Background(), SuggestBlockCommand{ItemID: item.ID(), UserID: userID})
	require.NoError(t, err)

	assert.Nil(t, result.Block)
	assert.True(t, result.Computed)

	stored, err := itemRepo.FindByID(context.Background(), item.ID())
	require.NoError(t, err)
	assert.False(t, stored.HasPlacement())

	pending, err := outboxRepo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSuggestBlockHandler_UnknownItem(t *testing.T) {
	handler := NewSuggestBlockHandler(newFakeItemRepo(), &fakeSnapshotRepo{}, fixedSuggester(day(9, 0)),
		outbox.NewInMemoryRepository(), noopUnitOfWork{})

	_, err := handler.Handle(context.Background(), SuggestBlockCommand{ItemID: uuid.New(), UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrWorkItemNotFound)
}

func TestSuggestBlockHandler_WrongUser(t *testing.T) {
	userID := uuid.New()
	item, err := domain.NewWorkItem(userID, "Private item", 30, nil)
	require.NoError(t, err)

	itemRepo := newFakeItemRepo()
	require.NoError(t, itemRepo.Save(context.Background(), item))

	handler := NewSuggestBlockHandler(itemRepo, &fakeSnapshotRepo{}, fixedSuggester(day(9, 0)),
		outbox.NewInMemoryRepository(), noopUnitOfWork{})

	_, err = handler.Handle(context.Background(), SuggestBlockCommand{ItemID: item.ID(), UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrWorkItemNotFound)
}

func TestSuggestBlockHandler_LostRaceReturnsWinningPlacement(t *testing.T) {
	now := day(8, 30)
	userID := uuid.New()
	item, err := domain.NewWorkItem(userID, "Write quarterly plan", 60, nil)
	require.NoError(t, err)

	itemRepo := newFakeItemRepo()
	require.NoError(t, itemRepo.Save(context.Background(), item))

	snapshots := &fakeSnapshotRepo{
		snapshot: &calendarDomain.DaySnapshot{
			DeepWorkWindows: []domain.DeepWorkWindow{
				{Start: day(9, 0), End: day(11, 0), Minutes: 120},
			},
		},
	}
	handler := NewSuggestBlockHandler(itemRepo, snapshots, fixedSuggester(now),
		outbox.NewInMemoryRepository(), noopUnitOfWork{})

	winStart := day(14, 0)
	winEnd := day(15, 0)
	winner := domain.RehydrateWorkItem(
		item.ID(), userID, item.Title(), item.EstimatedMinutes(), nil,
		&winStart, &winEnd, domain.ReasonQuietGap, domain.StatusSuggested,
		item.CreatedAt(), item.UpdatedAt(),
	)
	itemRepo.beforeSavePlacement = func() {
		itemRepo.mu.Lock()
		itemRepo.items[item.ID()] = winner
		itemRepo.mu.Unlock()
	}

	result, err := handler.Handle(context.Background(), SuggestBlockCommand{ItemID: item.ID(), UserID: userID})
	require.NoError(t, err)

	assert.False(t, result.Computed)
	require.NotNil(t, result.Block)
	assert.Equal(t, winStart, result.Block.Start)
}
