package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/buyers/domain"
	"wholesale_crm_backend/internal/buyers/repository"
	"wholesale_crm_backend/internal/buyers/transport"
	"wholesale_crm_backend/internal/events"
	"wholesale_crm_backend/platform/apperr"
	"wholesale_crm_backend/platform/logger"
)

type fakeBuyerStore struct {
	buyers map[uuid.UUID]domain.Buyer
	prefs  []domain.Preference
}

func newFakeBuyerStore(buyers ...domain.Buyer) *fakeBuyerStore {
	store := &fakeBuyerStore{buyers: make(map[uuid.UUID]domain.Buyer)}
	for _, buyer := range buyers {
		store.buyers[buyer.ID] = buyer
	}
	return store
}

func (f *fakeBuyerStore) Create(_ context.Context, params repository.CreateBuyerParams) (domain.Buyer, error) {
	buyer := domain.Buyer{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		Phone:        params.Phone,
		CashBuyer:    params.CashBuyer,
		ProofOfFunds: params.ProofOfFunds,
		Notes:        params.Notes,
		Preferences:  []domain.Preference{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.buyers[buyer.ID] = buyer
	return buyer, nil
}

func (f *fakeBuyerStore) FindByID(_ context.Context, id uuid.UUID) (domain.Buyer, error) {
	buyer, ok := f.buyers[id]
	if !ok {
		return domain.Buyer{}, apperr.NotFound("buyer not found")
	}
	return buyer, nil
}

func (f *fakeBuyerStore) List(_ context.Context) ([]domain.Buyer, error) {
	out := make([]domain.Buyer, 0, len(f.buyers))
	for _, buyer := range f.buyers {
		out = append(out, buyer)
	}
	return out, nil
}

func (f *fakeBuyerStore) Update(_ context.Context, id uuid.UUID, params repository.UpdateBuyerParams) (domain.Buyer, error) {
	buyer, ok := f.buyers[id]
	if !ok {
		return domain.Buyer{}, apperr.NotFound("buyer not found")
	}
	buyer.Name = params.Name
	f.buyers[id] = buyer
	return buyer, nil
}

func (f *fakeBuyerStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.buyers[id]; !ok {
		return apperr.NotFound("buyer not found")
	}
	delete(f.buyers, id)
	return nil
}

func (f *fakeBuyerStore) AddPreference(_ context.Context, params repository.CreatePreferenceParams) (domain.Preference, error) {
	pref := domain.Preference{
		ID:            uuid.New(),
		BuyerID:       params.BuyerID,
		MinPrice:      params.MinPrice,
		MaxPrice:      params.MaxPrice,
		Areas:         params.Areas,
		PropertyTypes: params.PropertyTypes,
		CreatedAt:     time.Now(),
	}
	f.prefs = append(f.prefs, pref)
	return pref, nil
}

func (f *fakeBuyerStore) DeletePreference(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

type fakeOnboarding struct {
	calls []uuid.UUID
}

func (f *fakeOnboarding) GenerateForNewBuyer(_ context.Context, buyerID uuid.UUID, _ string, _ uuid.UUID) error {
	f.calls = append(f.calls, buyerID)
	return nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func floatPtr(v float64) *float64 { return &v }

func TestCreateBuyerGeneratesOnboardingTaskAndEvent(t *testing.T) {
	store := newFakeBuyerStore()
	onboarding := &fakeOnboarding{}
	bus := &recordingBus{}
	svc := New(store, onboarding, bus, logger.New("development"))

	resp, err := svc.Create(context.Background(), transport.CreateBuyerRequest{
		Name:      "Lone Star Capital",
		CashBuyer: true,
	}, uuid.New())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(onboarding.calls) != 1 || onboarding.calls[0].String() != resp.ID {
		t.Errorf("expected onboarding task for new buyer, got %v", onboarding.calls)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	created, ok := bus.published[0].(events.BuyerCreated)
	if !ok {
		t.Fatalf("expected BuyerCreated, got %T", bus.published[0])
	}
	if created.Name != "Lone Star Capital" || !created.CashBuyer {
		t.Errorf("unexpected event payload %+v", created)
	}
}

func TestAddPreferenceRejectsInvertedRange(t *testing.T) {
	buyer := domain.Buyer{ID: uuid.New(), Name: "Investor"}
	svc := New(newFakeBuyerStore(buyer), nil, &recordingBus{}, logger.New("development"))

	_, err := svc.AddPreference(context.Background(), buyer.ID, transport.CreatePreferenceRequest{
		MinPrice: floatPtr(500000),
		MaxPrice: floatPtr(100000),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddPreferenceUnknownBuyer(t *testing.T) {
	svc := New(newFakeBuyerStore(), nil, &recordingBus{}, logger.New("development"))

	_, err := svc.AddPreference(context.Background(), uuid.New(), transport.CreatePreferenceRequest{})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
