package cli

import (
	calendarCommands "github.com/echo-labs/echo-core/internal/calendar/application/commands"
	cognitionCommands "github.com/echo-labs/echo-core/internal/cognition/application/commands"
	cognitionQueries "github.com/echo-labs/echo-core/internal/cognition/application/queries"
	schedulingCommands "github.com/echo-labs/echo-core/internal/scheduling/application/commands"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Scheduling Command Handlers
	CreateItemHandler   *schedulingCommands.CreateWorkItemHandler
	SuggestBlockHandler *schedulingCommands.SuggestBlockHandler
	DecideHandler       *schedulingCommands.DecidePlacementHandler

	// Cognition Command Handlers
	RecomputeStateHandler *cognitionCommands.RecomputeStateHandler

	// Cognition Query Handlers
	LatestStateHandler    *cognitionQueries.LatestStateHandler
	CurrentOpinionHandler *cognitionQueries.CurrentOpinionHandler

	// Calendar Command Handlers
	UpsertSnapshotHandler *calendarCommands.UpsertSnapshotHandler

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createItemHandler *schedulingCommands.CreateWorkItemHandler,
	suggestBlockHandler *schedulingCommands.SuggestBlockHandler,
	decideHandler *schedulingCommands.DecidePlacementHandler,
	recomputeStateHandler *cognitionCommands.RecomputeStateHandler,
	latestStateHandler *cognitionQueries.LatestStateHandler,
	currentOpinionHandler *cognitionQueries.CurrentOpinionHandler,
	upsertSnapshotHandler *calendarCommands.UpsertSnapshotHandler,
) *App {
	return &App{
		CreateItemHandler:     createItemHandler,
		SuggestBlockHandler:   suggestBlockHandler,
		DecideHandler:         decideHandler,
		RecomputeStateHandler: recomputeStateHandler,
		LatestStateHandler:    latestStateHandler,
		CurrentOpinionHandler: currentOpinionHandler,
		UpsertSnapshotHandler: upsertSnapshotHandler,
		CurrentUserID:         uuid.Nil,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
