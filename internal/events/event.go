// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"wholesale_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new seller lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	Source     string     `json:"source,omitempty"`
	City       string     `json:"city,omitempty"`
	State      string     `json:"state,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadStatusChanged is published after a lead moves to a new pipeline status.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ChangedBy  uuid.UUID `json:"changedBy"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status_changed" }

// =============================================================================
// Buyers Domain Events
// =============================================================================

// BuyerCreated is published when a new buyer is registered.
type BuyerCreated struct {
	BaseEvent
	BuyerID   uuid.UUID `json:"buyerId"`
	Name      string    `json:"name"`
	CashBuyer bool      `json:"cashBuyer"`
	CreatedBy uuid.UUID `json:"createdBy"`
}

func (e BuyerCreated) EventName() string { return "buyers.created" }

// =============================================================================
// Tasks Domain Events
// =============================================================================

// TaskCreated is published when a follow-up task is generated or created manually.
type TaskCreated struct {
	BaseEvent
	TaskID     uuid.UUID  `json:"taskId"`
	LeadID     uuid.UUID  `json:"leadId"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	Title      string     `json:"title"`
	Priority   string     `json:"priority"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
}

func (e TaskCreated) EventName() string { return "tasks.created" }

// TaskDue is published by the scheduler worker when a task's reminder fires.
type TaskDue struct {
	BaseEvent
	TaskID     uuid.UUID  `json:"taskId"`
	LeadID     uuid.UUID  `json:"leadId"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	Title      string     `json:"title"`
	Priority   string     `json:"priority"`
	DueDate    time.Time  `json:"dueDate"`
}

func (e TaskDue) EventName() string { return "tasks.due" }

// =============================================================================
// Offers Domain Events
// =============================================================================

// OfferAccepted is published when a buyer's offer on a lead is accepted.
// The leads module reacts by moving the lead under contract.
type OfferAccepted struct {
	BaseEvent
	OfferID    uuid.UUID `json:"offerId"`
	LeadID     uuid.UUID `json:"leadId"`
	BuyerID    uuid.UUID `json:"buyerId"`
	Amount     float64   `json:"amount"`
	AcceptedBy uuid.UUID `json:"acceptedBy"`
}

func (e OfferAccepted) EventName() string { return "offers.accepted" }
