package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is an offer's lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusWithdrawn Status = "WITHDRAWN"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusWithdrawn:
		return Status(raw), true
	}
	return "", false
}

// IsTerminal reports whether the offer can no longer change state.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

// CanTransition enforces the offer lifecycle: drafts are sent or
// withdrawn, sent offers resolve one way or another.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusDraft:
		return to == StatusSent || to == StatusWithdrawn
	case StatusSent:
		return to == StatusAccepted || to == StatusRejected || to == StatusWithdrawn
	default:
		return false
	}
}

// Offer is a buyer's bid on a lead's property.
type Offer struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	BuyerID   uuid.UUID
	Amount    float64
	Status    Status
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
