// Package ports declares the outbound interfaces the leads service
// depends on. Adapters in internal/adapters satisfy them, which keeps
// the leads module from importing the tasks module directly.
package ports

import (
	"context"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/leads/domain"
)

// FollowUpGenerator derives and persists the follow-up task for a lead
// status transition. Implementations decide dedup policy.
type FollowUpGenerator interface {
	GenerateForTransition(ctx context.Context, leadID uuid.UUID, newStatus domain.Status, assignee uuid.UUID) (created bool, err error)
}
