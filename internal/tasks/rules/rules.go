// Package rules contains the pure task-generation and due-date
// classification logic. Nothing in this package touches the database or
// the clock directly; callers inject time.
package rules

import (
	"time"

	leaddomain "wholesale_crm_backend/internal/leads/domain"
	taskdomain "wholesale_crm_backend/internal/tasks/domain"

	"github.com/google/uuid"
)

// Draft is a task ready to be persisted. Generated drafts always start
// in PENDING status.
type Draft struct {
	LeadID      *uuid.UUID
	BuyerID     *uuid.UUID
	Title       string
	Description string
	Priority    taskdomain.Priority
	AssignedTo  uuid.UUID
	DueDate     time.Time
}

// transitionRule describes the follow-up derived from a lead entering a
// pipeline status.
type transitionRule struct {
	title       string
	description string
	priority    taskdomain.Priority
	dueIn       time.Duration
}

// leadTransitionRules maps a lead's new status to its follow-up task.
// Statuses absent from the table generate nothing.
var leadTransitionRules = map[leaddomain.Status]transitionRule{
	leaddomain.StatusNew: {
		title:       "Contact lead within 1 hour",
		description: "New seller lead. Speed to lead wins deals; make first contact immediately.",
		priority:    taskdomain.PriorityHigh,
		dueIn:       time.Hour,
	},
	leaddomain.StatusContacted: {
		title:       "Follow up with lead in 3 days",
		description: "Initial contact made. Check back before the lead goes cold.",
		priority:    taskdomain.PriorityLow,
		dueIn:       72 * time.Hour,
	},
	leaddomain.StatusQualified: {
		title:       "Schedule property visit",
		description: "Lead qualified. Walk the property and confirm repair estimates.",
		priority:    taskdomain.PriorityMedium,
		dueIn:       24 * time.Hour,
	},
	leaddomain.StatusUnderContract: {
		title:       "Prepare closing documents",
		description: "Contract signed. Assemble assignment paperwork and confirm title work.",
		priority:    taskdomain.PriorityHigh,
		dueIn:       72 * time.Hour,
	},
}

// ForLeadTransition derives the follow-up task for a lead entering
// newStatus, assigned to assignee and due relative to now. The second
// return value is false when the status generates no task.
func ForLeadTransition(leadID uuid.UUID, newStatus leaddomain.Status, assignee uuid.UUID, now time.Time) (Draft, bool) {
	rule, ok := leadTransitionRules[newStatus]
	if !ok {
		return Draft{}, false
	}

	id := leadID
	return Draft{
		LeadID:      &id,
		Title:       rule.title,
		Description: rule.description,
		Priority:    rule.priority,
		AssignedTo:  assignee,
		DueDate:     now.Add(rule.dueIn),
	}, true
}

// ForNewBuyer derives the onboarding follow-up for a freshly registered
// buyer. Buyer tasks are the one case where a task has no lead.
func ForNewBuyer(buyerID uuid.UUID, buyerName string, assignee uuid.UUID, now time.Time) Draft {
	id := buyerID
	return Draft{
		BuyerID:     &id,
		Title:       "Verify buyer proof of funds",
		Description: "New buyer " + buyerName + " registered. Collect and verify proof of funds before sending deals.",
		Priority:    taskdomain.PriorityMedium,
		AssignedTo:  assignee,
		DueDate:     now.Add(72 * time.Hour),
	}
}
