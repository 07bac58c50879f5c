package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskDueReminder = "tasks.reminder.due"

type DueReminderPayload struct {
	TaskID  string    `json:"taskId"`
	DueDate time.Time `json:"dueDate"`
}

func NewDueReminderTask(payload DueReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDueReminder, data), nil
}

func ParseDueReminderPayload(task *asynq.Task) (DueReminderPayload, error) {
	var payload DueReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DueReminderPayload{}, err
	}
	return payload, nil
}
