package adapters

import (
	"context"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/buyers/ports"
	"wholesale_crm_backend/internal/tasks/service"
)

// BuyerOnboardingAdapter adapts the tasks service for the buyers domain.
// It implements the buyers/ports.OnboardingGenerator interface.
type BuyerOnboardingAdapter struct {
	taskService *service.Service
}

func NewBuyerOnboardingAdapter(taskService *service.Service) *BuyerOnboardingAdapter {
	return &BuyerOnboardingAdapter{taskService: taskService}
}

func (a *BuyerOnboardingAdapter) GenerateForNewBuyer(ctx context.Context, buyerID uuid.UUID, buyerName string, assignee uuid.UUID) error {
	return a.taskService.GenerateForNewBuyer(ctx, buyerID, buyerName, assignee)
}

var _ ports.OnboardingGenerator = (*BuyerOnboardingAdapter)(nil)
