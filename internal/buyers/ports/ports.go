// Package ports declares the outbound interfaces the buyers service
// depends on.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// OnboardingGenerator creates the follow-up task for a newly registered
// buyer.
type OnboardingGenerator interface {
	GenerateForNewBuyer(ctx context.Context, buyerID uuid.UUID, buyerName string, assignee uuid.UUID) error
}
