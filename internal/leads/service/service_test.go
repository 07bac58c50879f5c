package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/events"
	"wholesale_crm_backend/internal/leads/domain"
	"wholesale_crm_backend/internal/leads/repository"
	"wholesale_crm_backend/internal/leads/transport"
	"wholesale_crm_backend/platform/apperr"
	"wholesale_crm_backend/platform/logger"
)

type fakeStore struct {
	leads map[uuid.UUID]domain.Lead

	statusUpdates []domain.Status
	deleted       []uuid.UUID
}

func newFakeStore(leads ...domain.Lead) *fakeStore {
	store := &fakeStore{leads: make(map[uuid.UUID]domain.Lead)}
	for _, lead := range leads {
		store.leads[lead.ID] = lead
	}
	return store
}

func (f *fakeStore) Create(_ context.Context, params repository.CreateLeadParams) (domain.Lead, error) {
	lead := domain.Lead{
		ID:          uuid.New(),
		SellerName:  params.SellerName,
		SellerPhone: params.SellerPhone,
		SellerEmail: params.SellerEmail,
		Source:      params.Source,
		Status:      domain.StatusNew,
		AssignedTo:  params.AssignedTo,
		Notes:       params.Notes,
		Property: domain.Property{
			ID:          uuid.New(),
			AddressLine: params.AddressLine,
			City:        params.City,
			State:       params.State,
			ZipCode:     params.ZipCode,
			Price:       params.Price,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	lead.Property.LeadID = lead.ID
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeStore) List(_ context.Context, _ repository.ListFilter) ([]domain.Lead, int, error) {
	out := make([]domain.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		out = append(out, lead)
	}
	return out, len(out), nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	lead.SellerName = params.SellerName
	lead.SellerPhone = params.SellerPhone
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) error {
	lead, ok := f.leads[id]
	if !ok {
		return apperr.NotFound("lead not found")
	}
	lead.Status = status
	f.leads[id] = lead
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return apperr.NotFound("lead not found")
	}
	delete(f.leads, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeFollowUp struct {
	calls []struct {
		LeadID   uuid.UUID
		Status   domain.Status
		Assignee uuid.UUID
	}
	created bool
	err     error
}

func (f *fakeFollowUp) GenerateForTransition(_ context.Context, leadID uuid.UUID, status domain.Status, assignee uuid.UUID) (bool, error) {
	f.calls = append(f.calls, struct {
		LeadID   uuid.UUID
		Status   domain.Status
		Assignee uuid.UUID
	}{leadID, status, assignee})
	return f.created, f.err
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event)          { b.published = append(b.published, e) }
func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

func testLead(status domain.Status) domain.Lead {
	id := uuid.New()
	return domain.Lead{
		ID:          id,
		SellerName:  "Pat Seller",
		SellerPhone: "+15125550100",
		Status:      status,
		Property: domain.Property{
			ID:     uuid.New(),
			LeadID: id,
			City:   "Austin",
			State:  "TX",
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func newTestService(store *fakeStore, followUp *fakeFollowUp, bus *recordingBus) *Service {
	return New(store, followUp, bus, logger.New("development"))
}

func TestCreateGeneratesFollowUpAndEvent(t *testing.T) {
	store := newFakeStore()
	followUp := &fakeFollowUp{created: true}
	bus := &recordingBus{}
	svc := newTestService(store, followUp, bus)
	actor := uuid.New()

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		SellerName:  "Pat Seller",
		SellerPhone: "(512) 555-0100",
		Property: transport.PropertyPayload{
			AddressLine: "100 Main St",
			City:        "Austin",
			State:       "TX",
			ZipCode:     "78701",
		},
	}, actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.Status != string(domain.StatusNew) {
		t.Errorf("expected new lead in NEW, got %s", resp.Status)
	}
	if resp.SellerPhone != "+15125550100" {
		t.Errorf("expected normalized phone, got %s", resp.SellerPhone)
	}
	if len(followUp.calls) != 1 || followUp.calls[0].Status != domain.StatusNew {
		t.Fatalf("expected one NEW follow-up call, got %+v", followUp.calls)
	}
	if followUp.calls[0].Assignee != actor {
		t.Errorf("expected unassigned lead's follow-up to go to the actor")
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
	if _, ok := bus.published[0].(events.LeadCreated); !ok {
		t.Errorf("expected LeadCreated event, got %T", bus.published[0])
	}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	lead := testLead(domain.StatusNew)
	store := newFakeStore(lead)
	followUp := &fakeFollowUp{created: true}
	bus := &recordingBus{}
	svc := newTestService(store, followUp, bus)
	actor := uuid.New()

	resp, err := svc.UpdateStatus(context.Background(), lead.ID, "CONTACTED", actor)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	if resp.Status != string(domain.StatusContacted) {
		t.Errorf("expected CONTACTED, got %s", resp.Status)
	}
	if len(store.statusUpdates) != 1 || store.statusUpdates[0] != domain.StatusContacted {
		t.Errorf("expected one persisted status update, got %v", store.statusUpdates)
	}
	if len(followUp.calls) != 1 || followUp.calls[0].Status != domain.StatusContacted {
		t.Fatalf("expected CONTACTED follow-up call, got %+v", followUp.calls)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	changed, ok := bus.published[0].(events.LeadStatusChanged)
	if !ok {
		t.Fatalf("expected LeadStatusChanged, got %T", bus.published[0])
	}
	if changed.FromStatus != "NEW" || changed.ToStatus != "CONTACTED" {
		t.Errorf("unexpected transition payload %s -> %s", changed.FromStatus, changed.ToStatus)
	}
}

func TestUpdateStatusAcceptsLegacyAlias(t *testing.T) {
	lead := testLead(domain.StatusQualified)
	store := newFakeStore(lead)
	svc := newTestService(store, &fakeFollowUp{}, &recordingBus{})

	resp, err := svc.UpdateStatus(context.Background(), lead.ID, "PROPOSAL_SENT", uuid.New())
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if resp.Status != string(domain.StatusNegotiating) {
		t.Errorf("expected alias to map to NEGOTIATING, got %s", resp.Status)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	lead := testLead(domain.StatusNew)
	svc := newTestService(newFakeStore(lead), &fakeFollowUp{}, &recordingBus{})

	_, err := svc.UpdateStatus(context.Background(), lead.ID, "ON_HOLD", uuid.New())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusRejectsClosedWonExit(t *testing.T) {
	lead := testLead(domain.StatusClosedWon)
	store := newFakeStore(lead)
	svc := newTestService(store, &fakeFollowUp{}, &recordingBus{})

	_, err := svc.UpdateStatus(context.Background(), lead.ID, "NEW", uuid.New())
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if len(store.statusUpdates) != 0 {
		t.Errorf("status must not be persisted on a rejected transition")
	}
}

func TestUpdateStatusSurvivesFollowUpFailure(t *testing.T) {
	lead := testLead(domain.StatusNew)
	store := newFakeStore(lead)
	followUp := &fakeFollowUp{err: errors.New("insert failed")}
	svc := newTestService(store, followUp, &recordingBus{})

	resp, err := svc.UpdateStatus(context.Background(), lead.ID, "QUALIFIED", uuid.New())
	if err != nil {
		t.Fatalf("status change must stand when task generation fails: %v", err)
	}
	if resp.Status != string(domain.StatusQualified) {
		t.Errorf("expected QUALIFIED, got %s", resp.Status)
	}
}

func TestMarkUnderContractIdempotent(t *testing.T) {
	lead := testLead(domain.StatusUnderContract)
	store := newFakeStore(lead)
	svc := newTestService(store, &fakeFollowUp{}, &recordingBus{})

	if err := svc.MarkUnderContract(context.Background(), lead.ID, uuid.New()); err != nil {
		t.Fatalf("expected already-under-contract lead to be a no-op, got %v", err)
	}
	if len(store.statusUpdates) != 0 {
		t.Errorf("no status write expected, got %v", store.statusUpdates)
	}
}

func TestMarkUnderContractFromNegotiating(t *testing.T) {
	lead := testLead(domain.StatusNegotiating)
	store := newFakeStore(lead)
	followUp := &fakeFollowUp{created: true}
	svc := newTestService(store, followUp, &recordingBus{})

	if err := svc.MarkUnderContract(context.Background(), lead.ID, uuid.New()); err != nil {
		t.Fatalf("MarkUnderContract: %v", err)
	}
	if len(store.statusUpdates) != 1 || store.statusUpdates[0] != domain.StatusUnderContract {
		t.Fatalf("expected UNDER_CONTRACT write, got %v", store.statusUpdates)
	}
	if len(followUp.calls) != 1 || followUp.calls[0].Status != domain.StatusUnderContract {
		t.Errorf("expected closing-documents follow-up, got %+v", followUp.calls)
	}
}
