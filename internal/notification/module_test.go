package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"wholesale_crm_backend/internal/events"
	"wholesale_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type testEmailConfig struct {
	notifyEmail string
	fromAddress string
}

func (c testEmailConfig) GetEmailEnabled() bool       { return true }
func (c testEmailConfig) GetSMTPHost() string         { return "smtp.example.com" }
func (c testEmailConfig) GetSMTPPort() int            { return 587 }
func (c testEmailConfig) GetSMTPUsername() string     { return "" }
func (c testEmailConfig) GetSMTPPassword() string     { return "" }
func (c testEmailConfig) GetEmailFromName() string    { return "Wholesale CRM" }
func (c testEmailConfig) GetEmailFromAddress() string { return c.fromAddress }
func (c testEmailConfig) GetNotifyEmail() string      { return c.notifyEmail }

type testSender struct {
	taskDueCalls       int
	offerAcceptedCalls int
	lastToEmail        string
	lastTaskTitle      string
	lastBuyerName      string
	err                error
}

func (s *testSender) SendTaskDueEmail(_ context.Context, toEmail, taskTitle, _, _, _ string) error {
	s.taskDueCalls++
	s.lastToEmail = toEmail
	s.lastTaskTitle = taskTitle
	return s.err
}

func (s *testSender) SendOfferAcceptedEmail(_ context.Context, toEmail, buyerName, _, _ string) error {
	s.offerAcceptedCalls++
	s.lastToEmail = toEmail
	s.lastBuyerName = buyerName
	return s.err
}

func (s *testSender) SendCustomEmail(context.Context, string, string, string) error {
	return s.err
}

func newTestModule(sender *testSender, cfg testEmailConfig) *Module {
	return New(nil, sender, cfg, logger.New("development"))
}

func taskDueEvent() events.TaskDue {
	return events.TaskDue{
		BaseEvent: events.NewBaseEvent(),
		TaskID:    uuid.New(),
		LeadID:    uuid.Nil,
		Title:     "Initial contact with seller",
		Priority:  "HIGH",
		DueDate:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestHandleTaskDueSendsToNotifyAddress(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, testEmailConfig{notifyEmail: "team@example.com"})

	if err := m.Handle(context.Background(), taskDueEvent()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if sender.taskDueCalls != 1 {
		t.Fatalf("taskDueCalls = %d, want 1", sender.taskDueCalls)
	}
	if sender.lastToEmail != "team@example.com" {
		t.Errorf("toEmail = %q, want team@example.com", sender.lastToEmail)
	}
	if sender.lastTaskTitle != "Initial contact with seller" {
		t.Errorf("taskTitle = %q", sender.lastTaskTitle)
	}
}

func TestNotifyAddressFallsBackToFromAddress(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, testEmailConfig{fromAddress: "crm@example.com"})

	if err := m.Handle(context.Background(), taskDueEvent()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if sender.lastToEmail != "crm@example.com" {
		t.Errorf("toEmail = %q, want crm@example.com", sender.lastToEmail)
	}
}

func TestHandleTaskDueSkipsWithoutAddress(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, testEmailConfig{})

	if err := m.Handle(context.Background(), taskDueEvent()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if sender.taskDueCalls != 0 {
		t.Fatalf("taskDueCalls = %d, want 0", sender.taskDueCalls)
	}
}

func TestHandleOfferAcceptedSends(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, testEmailConfig{notifyEmail: "team@example.com"})

	event := events.OfferAccepted{
		BaseEvent:  events.NewBaseEvent(),
		OfferID:    uuid.New(),
		LeadID:     uuid.Nil,
		BuyerID:    uuid.Nil,
		Amount:     185000,
		AcceptedBy: uuid.New(),
	}

	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if sender.offerAcceptedCalls != 1 {
		t.Fatalf("offerAcceptedCalls = %d, want 1", sender.offerAcceptedCalls)
	}
}

func TestHandleReturnsSenderError(t *testing.T) {
	sender := &testSender{err: errors.New("smtp down")}
	m := newTestModule(sender, testEmailConfig{notifyEmail: "team@example.com"})

	if err := m.Handle(context.Background(), taskDueEvent()); err == nil {
		t.Fatal("Handle() error = nil, want smtp error")
	}
}

func TestHandleIgnoresUnknownEvents(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender, testEmailConfig{notifyEmail: "team@example.com"})

	event := events.LeadCreated{BaseEvent: events.NewBaseEvent(), LeadID: uuid.New()}
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if sender.taskDueCalls != 0 || sender.offerAcceptedCalls != 0 {
		t.Fatal("unexpected sender call for unsubscribed event")
	}
}
