package rules

import (
	"testing"
	"time"

	taskdomain "wholesale_crm_backend/internal/tasks/domain"

	"github.com/google/uuid"
)

func taskDue(due time.Time, status taskdomain.Status, priority taskdomain.Priority) taskdomain.Task {
	d := due
	return taskdomain.Task{
		ID:       uuid.New(),
		Title:    "t",
		Status:   status,
		Priority: priority,
		DueDate:  &d,
	}
}

func TestClassifyByDueness_CompletedNeverBucketed(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tasks := []taskdomain.Task{
		taskDue(now.Add(-365*24*time.Hour), taskdomain.StatusCompleted, taskdomain.PriorityHigh),
		taskDue(now.Add(2*time.Hour), taskdomain.StatusCompleted, taskdomain.PriorityUrgent),
	}

	buckets := ClassifyByDueness(tasks, now)
	if len(buckets.Overdue) != 0 || len(buckets.DueToday) != 0 {
		t.Fatalf("completed tasks must not be bucketed, got %d overdue / %d due today",
			len(buckets.Overdue), len(buckets.DueToday))
	}
}

func TestClassifyByDueness_NilDueDateExcluded(t *testing.T) {
	now := time.Now()
	tasks := []taskdomain.Task{{ID: uuid.New(), Status: taskdomain.StatusPending, Priority: taskdomain.PriorityHigh}}

	buckets := ClassifyByDueness(tasks, now)
	if len(buckets.Overdue) != 0 || len(buckets.DueToday) != 0 {
		t.Fatal("tasks without a due date must be excluded")
	}
}

func TestClassifyByDueness_SingleBucketPerTask(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Due earlier today: past due by time of day, goes to Overdue only.
	earlier := taskDue(now.Add(-3*time.Hour), taskdomain.StatusPending, taskdomain.PriorityLow)
	// Due later today: DueToday only.
	later := taskDue(now.Add(3*time.Hour), taskdomain.StatusPending, taskdomain.PriorityLow)

	buckets := ClassifyByDueness([]taskdomain.Task{earlier, later}, now)
	if len(buckets.Overdue) != 1 || buckets.Overdue[0].ID != earlier.ID {
		t.Fatal("task due earlier today must be overdue")
	}
	if len(buckets.DueToday) != 1 || buckets.DueToday[0].ID != later.ID {
		t.Fatal("task due later today must be due today")
	}
}

func TestClassifyByDueness_NoUpperBoundOnOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	yearOld := taskDue(now.Add(-365*24*time.Hour), taskdomain.StatusInProgress, taskdomain.PriorityMedium)
	buckets := ClassifyByDueness([]taskdomain.Task{yearOld}, now)
	if len(buckets.Overdue) != 1 {
		t.Fatal("a task overdue by a year still qualifies")
	}
}

func TestClassifyByDueness_OverdueSortedMostOverdueFirst(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	a := taskDue(now.Add(-1*time.Hour), taskdomain.StatusPending, taskdomain.PriorityLow)
	b := taskDue(now.Add(-48*time.Hour), taskdomain.StatusPending, taskdomain.PriorityLow)
	c := taskDue(now.Add(-10*time.Minute), taskdomain.StatusPending, taskdomain.PriorityLow)

	buckets := ClassifyByDueness([]taskdomain.Task{a, b, c}, now)
	if len(buckets.Overdue) != 3 {
		t.Fatalf("expected 3 overdue, got %d", len(buckets.Overdue))
	}
	want := []uuid.UUID{b.ID, a.ID, c.ID}
	for i, task := range buckets.Overdue {
		if task.ID != want[i] {
			t.Fatalf("overdue[%d]: wrong order", i)
		}
	}
}

func TestClassifyByDueness_DueTodaySortedByPriority(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	low := taskDue(now.Add(time.Hour), taskdomain.StatusPending, taskdomain.PriorityLow)
	urgent := taskDue(now.Add(2*time.Hour), taskdomain.StatusPending, taskdomain.PriorityUrgent)
	medium := taskDue(now.Add(3*time.Hour), taskdomain.StatusPending, taskdomain.PriorityMedium)

	buckets := ClassifyByDueness([]taskdomain.Task{low, urgent, medium}, now)
	if len(buckets.DueToday) != 3 {
		t.Fatalf("expected 3 due today, got %d", len(buckets.DueToday))
	}
	want := []uuid.UUID{urgent.ID, medium.ID, low.ID}
	for i, task := range buckets.DueToday {
		if task.ID != want[i] {
			t.Fatalf("dueToday[%d]: wrong order", i)
		}
	}
}

func TestClassifyByDueness_EndOfDayInclusive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	endOfDay := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)

	task := taskDue(endOfDay, taskdomain.StatusPending, taskdomain.PriorityMedium)
	buckets := ClassifyByDueness([]taskdomain.Task{task}, now)
	if len(buckets.DueToday) != 1 {
		t.Fatal("task due at end of day must count as due today")
	}

	tomorrow := taskDue(endOfDay.Add(2*time.Second), taskdomain.StatusPending, taskdomain.PriorityMedium)
	buckets = ClassifyByDueness([]taskdomain.Task{tomorrow}, now)
	if len(buckets.DueToday) != 0 {
		t.Fatal("task due tomorrow must not count as due today")
	}
}
