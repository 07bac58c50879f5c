package adapters

import (
	"context"

	"github.com/google/uuid"

	leaddomain "wholesale_crm_backend/internal/leads/domain"
	"wholesale_crm_backend/internal/leads/ports"
	"wholesale_crm_backend/internal/tasks/service"
)

// TaskFollowUpAdapter adapts the tasks service for the leads domain.
// It implements the leads/ports.FollowUpGenerator interface.
type TaskFollowUpAdapter struct {
	taskService *service.Service
}

func NewTaskFollowUpAdapter(taskService *service.Service) *TaskFollowUpAdapter {
	return &TaskFollowUpAdapter{taskService: taskService}
}

func (a *TaskFollowUpAdapter) GenerateForTransition(ctx context.Context, leadID uuid.UUID, newStatus leaddomain.Status, assignee uuid.UUID) (bool, error) {
	return a.taskService.GenerateForTransition(ctx, leadID, newStatus, assignee)
}

var _ ports.FollowUpGenerator = (*TaskFollowUpAdapter)(nil)
