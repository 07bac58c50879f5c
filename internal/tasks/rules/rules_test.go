package rules

import (
	"testing"
	"time"

	leaddomain "wholesale_crm_backend/internal/leads/domain"
	taskdomain "wholesale_crm_backend/internal/tasks/domain"

	"github.com/google/uuid"
)

func TestForLeadTransition_RuleTable(t *testing.T) {
	leadID := uuid.New()
	assignee := uuid.New()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		status   leaddomain.Status
		title    string
		priority taskdomain.Priority
		dueIn    time.Duration
	}{
		{leaddomain.StatusNew, "Contact lead within 1 hour", taskdomain.PriorityHigh, time.Hour},
		{leaddomain.StatusContacted, "Follow up with lead in 3 days", taskdomain.PriorityLow, 72 * time.Hour},
		{leaddomain.StatusQualified, "Schedule property visit", taskdomain.PriorityMedium, 24 * time.Hour},
		{leaddomain.StatusUnderContract, "Prepare closing documents", taskdomain.PriorityHigh, 72 * time.Hour},
	}

	for _, tc := range cases {
		draft, ok := ForLeadTransition(leadID, tc.status, assignee, now)
		if !ok {
			t.Fatalf("%s: expected a task", tc.status)
		}
		if draft.Title != tc.title {
			t.Fatalf("%s: expected title %q, got %q", tc.status, tc.title, draft.Title)
		}
		if draft.Priority != tc.priority {
			t.Fatalf("%s: expected priority %s, got %s", tc.status, tc.priority, draft.Priority)
		}
		if !draft.DueDate.Equal(now.Add(tc.dueIn)) {
			t.Fatalf("%s: expected due %s, got %s", tc.status, now.Add(tc.dueIn), draft.DueDate)
		}
		if draft.LeadID == nil || *draft.LeadID != leadID {
			t.Fatalf("%s: expected lead %s on draft", tc.status, leadID)
		}
		if draft.AssignedTo != assignee {
			t.Fatalf("%s: expected assignee %s, got %s", tc.status, assignee, draft.AssignedTo)
		}
	}
}

func TestForLeadTransition_NoTaskForOtherStatuses(t *testing.T) {
	now := time.Now()
	for _, status := range []leaddomain.Status{
		leaddomain.StatusNegotiating,
		leaddomain.StatusClosedWon,
		leaddomain.StatusClosedLost,
	} {
		if _, ok := ForLeadTransition(uuid.New(), status, uuid.New(), now); ok {
			t.Fatalf("expected no task for %s", status)
		}
	}
}

func TestForLeadTransition_ReopenedLeadGetsContactTask(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// A lead recycled from QUALIFIED back to NEW restarts the contact clock.
	draft, ok := ForLeadTransition(uuid.New(), leaddomain.StatusNew, uuid.New(), now)
	if !ok {
		t.Fatal("expected a task for NEW")
	}
	if draft.Title != "Contact lead within 1 hour" {
		t.Fatalf("unexpected title %q", draft.Title)
	}
	if !draft.DueDate.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected due exactly 1h after now, got %s", draft.DueDate)
	}
}

func TestForNewBuyer(t *testing.T) {
	buyerID := uuid.New()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	draft := ForNewBuyer(buyerID, "Acme Holdings", uuid.New(), now)
	if draft.Title != "Verify buyer proof of funds" {
		t.Fatalf("unexpected title %q", draft.Title)
	}
	if draft.Priority != taskdomain.PriorityMedium {
		t.Fatalf("expected MEDIUM, got %s", draft.Priority)
	}
	if draft.LeadID != nil {
		t.Fatal("buyer tasks must not reference a lead")
	}
	if draft.BuyerID == nil || *draft.BuyerID != buyerID {
		t.Fatal("expected buyer id on draft")
	}
	if !draft.DueDate.Equal(now.Add(72 * time.Hour)) {
		t.Fatalf("expected due in 3 days, got %s", draft.DueDate)
	}
}
