// Package queries contains the cognition read operations.
package queries

import (
	"context"

	"github.com/echo-labs/echo-core/internal/cognition/application/services"
	"github.com/echo-labs/echo-core/internal/cognition/domain"
	"github.com/google/uuid"
)

// CurrentOpinionQuery asks for guidance based on live signals.
type CurrentOpinionQuery struct {
	UserID uuid.UUID
}

// CurrentOpinionResult pairs the opinion with the index it was derived
// from.
type CurrentOpinionResult struct {
	Opinion  domain.Opinion
	Pressure domain.PressureIndex
}

// CurrentOpinionHandler computes the opinion on demand. Nothing is
// persisted; the opinion is a pure function of the moment's signals.
type CurrentOpinionHandler struct {
	collector *services.SignalCollector
}

func NewCurrentOpinionHandler(collector *services.SignalCollector) *CurrentOpinionHandler {
	return &CurrentOpinionHandler{collector: collector}
}

// Handle executes the CurrentOpinionQuery.
func (h *CurrentOpinionHandler) Handle(ctx context.Context, query CurrentOpinionQuery) (*CurrentOpinionResult, error) {
	pressureSignals, _, err := h.collector.Collect(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	index := services.ComputePressure(pressureSignals)
	return &CurrentOpinionResult{
		Opinion:  services.GenerateOpinion(index),
		Pressure: index,
	}, nil
}
