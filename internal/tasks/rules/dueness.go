package rules

import (
	"sort"
	"time"

	taskdomain "wholesale_crm_backend/internal/tasks/domain"
)

// Buckets groups tasks by dueness relative to a reference time.
type Buckets struct {
	// Overdue holds tasks whose due date has passed, most overdue first.
	Overdue []taskdomain.Task
	// DueToday holds tasks due later today (or exactly now), highest
	// priority first.
	DueToday []taskdomain.Task
}

// ClassifyByDueness splits tasks into overdue and due-today buckets
// relative to now. A task lands in at most one bucket: anything already
// past due goes to Overdue even when the due date is today. Tasks with
// no due date and COMPLETED tasks are excluded from both buckets.
func ClassifyByDueness(tasks []taskdomain.Task, now time.Time) Buckets {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24*time.Hour - time.Nanosecond)

	var buckets Buckets
	for _, task := range tasks {
		if task.DueDate == nil || task.Status == taskdomain.StatusCompleted {
			continue
		}

		due := *task.DueDate
		switch {
		case due.Before(now):
			buckets.Overdue = append(buckets.Overdue, task)
		case !due.Before(startOfDay) && !due.After(endOfDay):
			buckets.DueToday = append(buckets.DueToday, task)
		}
	}

	sort.Slice(buckets.Overdue, func(i, j int) bool {
		return buckets.Overdue[i].DueDate.Before(*buckets.Overdue[j].DueDate)
	})
	sort.SliceStable(buckets.DueToday, func(i, j int) bool {
		return buckets.DueToday[i].Priority.Rank() > buckets.DueToday[j].Priority.Rank()
	})

	return buckets
}
