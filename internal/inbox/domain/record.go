// Package domain contains the domain model for the inbox bounded context.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Band classifies an email record by its category text.
type Band string

const (
	BandAction   Band = "action"
	BandFollowUp Band = "follow_up"
	BandNoise    Band = "noise"
)

// EmailStatus is the triage status tracked per record.
type EmailStatus string

const (
	StatusUnresolved EmailStatus = "unresolved"
	StatusResolved   EmailStatus = "resolved"
	StatusDrafted    EmailStatus = "drafted"
)

// EmailRecord is one triaged email row. The mail automation owns the
// rows; this context only classifies and counts them.
type EmailRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Category   string
	Status     EmailStatus
	ReceivedAt time.Time
}

// Band returns the record's triage band.
func (r EmailRecord) Band() Band {
	return ClassifyBand(r.Category)
}

// ClassifyBand maps a category string to a band by case-insensitive
// substring match. Anything not recognizably follow-up or noise demands
// action.
func ClassifyBand(category string) Band {
	c := strings.ToLower(strings.TrimSpace(category))

	if strings.Contains(c, "follow") {
		return BandFollowUp
	}
	if strings.Contains(c, "info") || strings.Contains(c, "promo") ||
		strings.Contains(c, "newsletter") || c == "informational" {
		return BandNoise
	}
	return BandAction
}
