package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	calendarCommands "github.com/echo-labs/echo-core/internal/calendar/application/commands"
	calendarDomain "github.com/echo-labs/echo-core/internal/calendar/domain"
	cognitionCommands "github.com/echo-labs/echo-core/internal/cognition/application/commands"
	cognitionQueries "github.com/echo-labs/echo-core/internal/cognition/application/queries"
	cognitionDomain "github.com/echo-labs/echo-core/internal/cognition/domain"
	schedulingCommands "github.com/echo-labs/echo-core/internal/scheduling/application/commands"
	schedulingDomain "github.com/echo-labs/echo-core/internal/scheduling/domain"
	"github.com/echo-labs/echo-core/pkg/observability"
	"github.com/google/uuid"
)

// Handler serves the API routes. The app is single-user: the owning
// user comes from configuration, not from the request.
type Handler struct {
	userID uuid.UUID
	logger *slog.Logger

	createItem     *schedulingCommands.CreateWorkItemHandler
	suggestBlock   *schedulingCommands.SuggestBlockHandler
	decide         *schedulingCommands.DecidePlacementHandler
	recomputeState *cognitionCommands.RecomputeStateHandler
	latestState    *cognitionQueries.LatestStateHandler
	currentOpinion *cognitionQueries.CurrentOpinionHandler
	upsertSnapshot *calendarCommands.UpsertSnapshotHandler
}

// HandlerConfig holds dependencies for the API handler.
type HandlerConfig struct {
	UserID         uuid.UUID
	Logger         *slog.Logger
	CreateItem     *schedulingCommands.CreateWorkItemHandler
	SuggestBlock   *schedulingCommands.SuggestBlockHandler
	Decide         *schedulingCommands.DecidePlacementHandler
	RecomputeState *cognitionCommands.RecomputeStateHandler
	LatestState    *cognitionQueries.LatestStateHandler
	CurrentOpinion *cognitionQueries.CurrentOpinionHandler
	UpsertSnapshot *calendarCommands.UpsertSnapshotHandler
}

// NewHandler creates the API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Handler{
		userID:         cfg.UserID,
		logger:         cfg.Logger,
		createItem:     cfg.CreateItem,
		suggestBlock:   cfg.SuggestBlock,
		decide:         cfg.Decide,
		recomputeState: cfg.RecomputeState,
		latestState:    cfg.LatestState,
		currentOpinion: cfg.CurrentOpinion,
		upsertSnapshot: cfg.UpsertSnapshot,
	}
}

type createWorkItemRequest struct {
	Title            string     `json:"title"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Deadline         *time.Time `json:"deadline,omitempty"`
}

type workItemResponse struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	Status           string     `json:"status"`
}

// CreateWorkItem handles POST /api/v1/blocks
func (h *Handler) CreateWorkItem(w http.ResponseWriter, r *http.Request) {
	var req createWorkItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Field 'title' is required")
		return
	}

	item, err := h.createItem.Handle(r.Context(), schedulingCommands.CreateWorkItemCommand{
		UserID:           h.userID,
		Title:            req.Title,
		EstimatedMinutes: req.EstimatedMinutes,
		Deadline:         req.Deadline,
	})
	if err != nil {
		if errors.Is(err, schedulingDomain.ErrInvalidEstimate) {
			writeError(w, http.StatusBadRequest, "Field 'estimated_minutes' must be positive")
			return
		}
		h.logger.Error("create work item failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create work item")
		return
	}

	writeJSON(w, http.StatusCreated, workItemResponse{
		ID:               item.ID(),
		Title:            item.Title(),
		EstimatedMinutes: item.EstimatedMinutes(),
		Deadline:         item.Deadline(),
		Status:           string(item.Status()),
	})
}

type suggestedBlockResponse struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes int       `json:"minutes"`
	Reason  string    `json:"reason"`
}

type suggestResponse struct {
	Block    *suggestedBlockResponse `json:"block"`
	Computed bool                    `json:"computed"`
}

// SuggestBlock handles POST /api/v1/blocks/{itemID}/suggest
func (h *Handler) SuggestBlock(w http.ResponseWriter, r *http.Request) {
	defer observability.LogDuration(h.logger, "suggest_block", time.Now())

	itemID, ok := h.pathID(w, r, "itemID")
	if !ok {
		return
	}

	result, err := h.suggestBlock.Handle(r.Context(), schedulingCommands.SuggestBlockCommand{
		ItemID: itemID,
		UserID: h.userID,
	})
	if err != nil {
		if errors.Is(err, schedulingCommands.ErrWorkItemNotFound) {
			writeError(w, http.StatusNotFound, "Work item not found")
			return
		}
		h.logger.Error("suggest block failed", "item_id", itemID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to suggest block")
		return
	}

	resp := suggestResponse{Computed: result.Computed}
	if result.Block != nil {
		resp.Block = &suggestedBlockResponse{
			Start:   result.Block.Start,
			End:     result.Block.End,
			Minutes: result.Block.Minutes,
			Reason:  string(result.Block.Reason),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// DefendBlock handles POST /api/v1/blocks/{itemID}/defend
func (h *Handler) DefendBlock(w http.ResponseWriter, r *http.Request) {
	h.decidePlacement(w, r, true)
}

// DismissBlock handles POST /api/v1/blocks/{itemID}/dismiss
func (h *Handler) DismissBlock(w http.ResponseWriter, r *http.Request) {
	h.decidePlacement(w, r, false)
}

func (h *Handler) decidePlacement(w http.ResponseWriter, r *http.Request, defend bool) {
	itemID, ok := h.pathID(w, r, "itemID")
	if !ok {
		return
	}

	err := h.decide.Handle(r.Context(), schedulingCommands.DecidePlacementCommand{
		ItemID: itemID,
		UserID: h.userID,
		Defend: defend,
	})
	if err != nil {
		if errors.Is(err, schedulingCommands.ErrWorkItemNotFound) {
			writeError(w, http.StatusNotFound, "Work item not found")
			return
		}
		h.logger.Error("decide placement failed", "item_id", itemID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update work item")
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

type stateResponse struct {
	State       string    `json:"state"`
	Drivers     []string  `json:"drivers"`
	Instruction string    `json:"instruction"`
	Relief      string    `json:"relief_statement"`
	Confidence  float64   `json:"confidence"`
	ComputedAt  time.Time `json:"computed_at"`
}

type recomputeResponse struct {
	stateResponse
	Pressure float64 `json:"pressure"`
}

// RecomputeState handles POST /api/v1/cognitive-state/recompute
func (h *Handler) RecomputeState(w http.ResponseWriter, r *http.Request) {
	defer observability.LogDuration(h.logger, "recompute_state", time.Now())

	result, err := h.recomputeState.Handle(r.Context(), cognitionCommands.RecomputeStateCommand{
		UserID: h.userID,
	})
	if err != nil {
		h.logger.Error("recompute state failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to recompute state")
		return
	}

	writeJSON(w, http.StatusOK, recomputeResponse{
		stateResponse: stateToResponse(result.Record),
		Pressure:      result.Pressure.Value,
	})
}

// LatestState handles GET /api/v1/cognitive-state
func (h *Handler) LatestState(w http.ResponseWriter, r *http.Request) {
	record, err := h.latestState.Handle(r.Context(), cognitionQueries.LatestStateQuery{
		UserID: h.userID,
	})
	if err != nil {
		if errors.Is(err, cognitionQueries.ErrStateNotFound) {
			writeError(w, http.StatusNotFound, "No cognitive state computed yet")
			return
		}
		h.logger.Error("latest state failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load state")
		return
	}

	writeJSON(w, http.StatusOK, stateToResponse(record))
}

type opinionResponse struct {
	Opinion  any      `json:"opinion"`
	Pressure float64  `json:"pressure"`
	Drivers  []string `json:"drivers"`
}

// CurrentOpinion handles GET /api/v1/opinion/now
func (h *Handler) CurrentOpinion(w http.ResponseWriter, r *http.Request) {
	result, err := h.currentOpinion.Handle(r.Context(), cognitionQueries.CurrentOpinionQuery{
		UserID: h.userID,
	})
	if err != nil {
		h.logger.Error("current opinion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute opinion")
		return
	}

	writeJSON(w, http.StatusOK, opinionResponse{
		Opinion:  result.Opinion,
		Pressure: result.Pressure.Value,
		Drivers:  result.Pressure.DriverNames(),
	})
}

type snapshotRequest struct {
	Date            time.Time                         `json:"date"`
	Timeline        []schedulingDomain.BusyInterval   `json:"timeline"`
	DeepWorkWindows []schedulingDomain.DeepWorkWindow `json:"deep_work_windows"`
	Insights        calendarDomain.CalendarInsights   `json:"insights"`
}

// UpsertSnapshot handles POST /api/v1/snapshots
func (h *Handler) UpsertSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "Field 'date' is required")
		return
	}

	err := h.upsertSnapshot.Handle(r.Context(), calendarCommands.UpsertSnapshotCommand{
		Snapshot: &calendarDomain.DaySnapshot{
			UserID:          h.userID,
			Date:            req.Date,
			Timeline:        req.Timeline,
			DeepWorkWindows: req.DeepWorkWindows,
			Insights:        req.Insights,
		},
	})
	if err != nil {
		h.logger.Error("upsert snapshot failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store snapshot")
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item ID")
		return uuid.Nil, false
	}
	return id, true
}

func stateToResponse(record *cognitionDomain.StateRecord) stateResponse {
	return stateResponse{
		State:       string(record.State),
		Drivers:     record.Drivers,
		Instruction: record.Instruction,
		Relief:      record.Relief,
		Confidence:  record.Confidence,
		ComputedAt:  record.ComputedAt,
	}
}
