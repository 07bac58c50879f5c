package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/events"
	"wholesale_crm_backend/internal/offers/domain"
	"wholesale_crm_backend/internal/offers/repository"
	"wholesale_crm_backend/internal/offers/transport"
	"wholesale_crm_backend/platform/apperr"
)

// OfferStore is the repository surface the service uses.
type OfferStore interface {
	Create(ctx context.Context, params repository.CreateOfferParams) (domain.Offer, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Offer, error)
	List(ctx context.Context, filter repository.ListFilter) ([]domain.Offer, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo OfferStore
	bus  events.Bus
}

func New(repo OfferStore, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

func (s *Service) Create(ctx context.Context, req transport.CreateOfferRequest) (*transport.OfferResponse, error) {
	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		return nil, apperr.Validation("leadId is not a valid id")
	}
	buyerID, err := uuid.Parse(req.BuyerID)
	if err != nil {
		return nil, apperr.Validation("buyerId is not a valid id")
	}

	offer, err := s.repo.Create(ctx, repository.CreateOfferParams{
		LeadID:  leadID,
		BuyerID: buyerID,
		Amount:  req.Amount,
		Notes:   req.Notes,
	})
	if err != nil {
		appErr := apperr.Internal("failed to create offer").WithOp("offers.Create")
		appErr.Err = err
		return nil, appErr
	}

	resp := transport.FromDomain(offer)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.OfferResponse, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.FromDomain(offer)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req transport.ListOffersRequest) (*transport.OfferListResponse, error) {
	filter := repository.ListFilter{}

	if req.LeadID != "" {
		id, err := uuid.Parse(req.LeadID)
		if err != nil {
			return nil, apperr.Validation("leadId is not a valid id")
		}
		filter.LeadID = &id
	}
	if req.BuyerID != "" {
		id, err := uuid.Parse(req.BuyerID)
		if err != nil {
			return nil, apperr.Validation("buyerId is not a valid id")
		}
		filter.BuyerID = &id
	}
	if req.Status != "" {
		status, ok := domain.ParseStatus(req.Status)
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("unknown status %q", req.Status))
		}
		filter.Status = &status
	}

	offers, err := s.repo.List(ctx, filter)
	if err != nil {
		appErr := apperr.Internal("failed to list offers").WithOp("offers.List")
		appErr.Err = err
		return nil, appErr
	}

	items := make([]transport.OfferResponse, len(offers))
	for i, offer := range offers {
		items[i] = transport.FromDomain(offer)
	}
	return &transport.OfferListResponse{Items: items, Total: len(items)}, nil
}

// UpdateStatus enforces the offer lifecycle and publishes OfferAccepted
// when an offer resolves positively.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string, actor uuid.UUID) (*transport.OfferResponse, error) {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown status %q", rawStatus))
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, status) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot move offer from %s to %s", current.Status, status))
	}

	offer, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if status == domain.StatusAccepted {
		s.bus.Publish(ctx, events.OfferAccepted{
			BaseEvent:  events.NewBaseEvent(),
			OfferID:    offer.ID,
			LeadID:     offer.LeadID,
			BuyerID:    offer.BuyerID,
			Amount:     offer.Amount,
			AcceptedBy: actor,
		})
	}

	resp := transport.FromDomain(offer)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if offer.Status == domain.StatusAccepted {
		return apperr.Conflict("accepted offers cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}
