package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/events"
	"wholesale_crm_backend/internal/offers/domain"
	"wholesale_crm_backend/internal/offers/repository"
	"wholesale_crm_backend/platform/apperr"
)

type fakeOfferStore struct {
	offers map[uuid.UUID]domain.Offer
}

func newFakeOfferStore(offers ...domain.Offer) *fakeOfferStore {
	store := &fakeOfferStore{offers: make(map[uuid.UUID]domain.Offer)}
	for _, offer := range offers {
		store.offers[offer.ID] = offer
	}
	return store
}

func (f *fakeOfferStore) Create(_ context.Context, params repository.CreateOfferParams) (domain.Offer, error) {
	offer := domain.Offer{
		ID:        uuid.New(),
		LeadID:    params.LeadID,
		BuyerID:   params.BuyerID,
		Amount:    params.Amount,
		Status:    domain.StatusDraft,
		Notes:     params.Notes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.offers[offer.ID] = offer
	return offer, nil
}

func (f *fakeOfferStore) FindByID(_ context.Context, id uuid.UUID) (domain.Offer, error) {
	offer, ok := f.offers[id]
	if !ok {
		return domain.Offer{}, apperr.NotFound("offer not found")
	}
	return offer, nil
}

func (f *fakeOfferStore) List(_ context.Context, _ repository.ListFilter) ([]domain.Offer, error) {
	out := make([]domain.Offer, 0, len(f.offers))
	for _, offer := range f.offers {
		out = append(out, offer)
	}
	return out, nil
}

func (f *fakeOfferStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (domain.Offer, error) {
	offer, ok := f.offers[id]
	if !ok {
		return domain.Offer{}, apperr.NotFound("offer not found")
	}
	offer.Status = status
	f.offers[id] = offer
	return offer, nil
}

func (f *fakeOfferStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.offers, id)
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

func sentOffer() domain.Offer {
	return domain.Offer{
		ID:      uuid.New(),
		LeadID:  uuid.New(),
		BuyerID: uuid.New(),
		Amount:  185000,
		Status:  domain.StatusSent,
	}
}

func TestAcceptPublishesOfferAccepted(t *testing.T) {
	offer := sentOffer()
	bus := &recordingBus{}
	svc := New(newFakeOfferStore(offer), bus)
	actor := uuid.New()

	resp, err := svc.UpdateStatus(context.Background(), offer.ID, "ACCEPTED", actor)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if resp.Status != "ACCEPTED" {
		t.Errorf("expected ACCEPTED, got %s", resp.Status)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	accepted, ok := bus.published[0].(events.OfferAccepted)
	if !ok {
		t.Fatalf("expected OfferAccepted, got %T", bus.published[0])
	}
	if accepted.LeadID != offer.LeadID || accepted.BuyerID != offer.BuyerID {
		t.Errorf("event carries wrong ids: %+v", accepted)
	}
	if accepted.Amount != 185000 || accepted.AcceptedBy != actor {
		t.Errorf("unexpected event payload %+v", accepted)
	}
}

func TestRejectDoesNotPublish(t *testing.T) {
	offer := sentOffer()
	bus := &recordingBus{}
	svc := New(newFakeOfferStore(offer), bus)

	if _, err := svc.UpdateStatus(context.Background(), offer.ID, "REJECTED", uuid.New()); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if len(bus.published) != 0 {
		t.Errorf("rejection must not publish events, got %d", len(bus.published))
	}
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	offer := sentOffer()
	offer.Status = domain.StatusAccepted
	svc := New(newFakeOfferStore(offer), &recordingBus{})

	_, err := svc.UpdateStatus(context.Background(), offer.ID, "REJECTED", uuid.New())
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteAcceptedOfferRefused(t *testing.T) {
	offer := sentOffer()
	offer.Status = domain.StatusAccepted
	store := newFakeOfferStore(offer)
	svc := New(store, &recordingBus{})

	err := svc.Delete(context.Background(), offer.ID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, ok := store.offers[offer.ID]; !ok {
		t.Error("offer must survive a refused delete")
	}
}
