// Package domain holds the task model and its enums, shared by the tasks
// module's repository, rules, and service layers.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority orders follow-up tasks for agents.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Rank returns a sortable weight; higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority normalizes a raw priority string.
func ParsePriority(raw string) (Priority, bool) {
	switch Priority(strings.ToUpper(strings.TrimSpace(raw))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityUrgent:
		return PriorityUrgent, true
	}
	return "", false
}

// Status is the task lifecycle state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus normalizes a raw status string.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusCancelled:
		return StatusCancelled, true
	}
	return "", false
}

// IsOpen reports whether the task still requires action.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusInProgress
}

// Task is a follow-up action item, usually attached to a lead.
// LeadID is nil only for buyer onboarding tasks, which carry BuyerID instead.
type Task struct {
	ID          uuid.UUID
	LeadID      *uuid.UUID
	BuyerID     *uuid.UUID
	Title       string
	Description string
	AssignedTo  *uuid.UUID
	Priority    Priority
	Status      Status
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
