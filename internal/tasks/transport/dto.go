package transport

import (
	"time"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/tasks/domain"
)

type CreateTaskRequest struct {
	LeadID      *string    `json:"leadId" validate:"omitempty,uuid"`
	BuyerID     *string    `json:"buyerId" validate:"omitempty,uuid"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"omitempty,max=4000"`
	AssignedTo  *string    `json:"assignedTo" validate:"omitempty,uuid"`
	Priority    string     `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

type ListTasksRequest struct {
	LeadID     string `form:"leadId" validate:"omitempty,uuid"`
	BuyerID    string `form:"buyerId" validate:"omitempty,uuid"`
	AssignedTo string `form:"assignedTo" validate:"omitempty,uuid"`
	Status     string `form:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset     int    `form:"offset" validate:"omitempty,min=0"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	LeadID      *string    `json:"leadId"`
	BuyerID     *string    `json:"buyerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  *string    `json:"assignedTo"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TaskListResponse struct {
	Items []TaskResponse `json:"items"`
	Total int            `json:"total"`
}

// DuenessResponse is the overdue/due-today read model.
type DuenessResponse struct {
	Items []TaskResponse `json:"items"`
	Total int            `json:"total"`
	AsOf  time.Time      `json:"asOf"`
}

func FromDomain(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		LeadID:      uuidString(task.LeadID),
		BuyerID:     uuidString(task.BuyerID),
		Title:       task.Title,
		Description: task.Description,
		AssignedTo:  uuidString(task.AssignedTo),
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func FromDomainList(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = FromDomain(task)
	}
	return out
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
