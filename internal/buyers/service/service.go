package service

import (
	"context"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/buyers/domain"
	"wholesale_crm_backend/internal/buyers/ports"
	"wholesale_crm_backend/internal/buyers/repository"
	"wholesale_crm_backend/internal/buyers/transport"
	"wholesale_crm_backend/internal/events"
	"wholesale_crm_backend/platform/apperr"
	"wholesale_crm_backend/platform/logger"
	"wholesale_crm_backend/platform/phone"
)

// BuyerStore is the repository surface the service uses.
type BuyerStore interface {
	Create(ctx context.Context, params repository.CreateBuyerParams) (domain.Buyer, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Buyer, error)
	List(ctx context.Context) ([]domain.Buyer, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateBuyerParams) (domain.Buyer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddPreference(ctx context.Context, params repository.CreatePreferenceParams) (domain.Preference, error)
	DeletePreference(ctx context.Context, buyerID, prefID uuid.UUID) error
}

type Service struct {
	repo       BuyerStore
	onboarding ports.OnboardingGenerator
	bus        events.Bus
	log        *logger.Logger
}

func New(repo BuyerStore, onboarding ports.OnboardingGenerator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, onboarding: onboarding, bus: bus, log: log}
}

// Create registers a buyer, generates the onboarding follow-up task, and
// publishes BuyerCreated.
func (s *Service) Create(ctx context.Context, req transport.CreateBuyerRequest, actor uuid.UUID) (*transport.BuyerResponse, error) {
	buyer, err := s.repo.Create(ctx, repository.CreateBuyerParams{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        normalizePhone(req.Phone),
		CashBuyer:    req.CashBuyer,
		ProofOfFunds: req.ProofOfFunds,
		Notes:        req.Notes,
	})
	if err != nil {
		appErr := apperr.Internal("failed to create buyer").WithOp("buyers.Create")
		appErr.Err = err
		return nil, appErr
	}

	if s.onboarding != nil {
		if err := s.onboarding.GenerateForNewBuyer(ctx, buyer.ID, buyer.Name, actor); err != nil {
			s.log.Warn("buyer onboarding task generation failed",
				"buyer_id", buyer.ID.String(),
				"error", err.Error(),
			)
		}
	}

	s.bus.Publish(ctx, events.BuyerCreated{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   buyer.ID,
		Name:      buyer.Name,
		CashBuyer: buyer.CashBuyer,
		CreatedBy: actor,
	})

	resp := transport.FromDomain(buyer)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.BuyerResponse, error) {
	buyer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.FromDomain(buyer)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) (*transport.BuyerListResponse, error) {
	buyers, err := s.repo.List(ctx)
	if err != nil {
		appErr := apperr.Internal("failed to list buyers").WithOp("buyers.List")
		appErr.Err = err
		return nil, appErr
	}

	items := make([]transport.BuyerResponse, len(buyers))
	for i, buyer := range buyers {
		items[i] = transport.FromDomain(buyer)
	}
	return &transport.BuyerListResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateBuyerRequest) (*transport.BuyerResponse, error) {
	buyer, err := s.repo.Update(ctx, id, repository.UpdateBuyerParams{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        normalizePhone(req.Phone),
		CashBuyer:    req.CashBuyer,
		ProofOfFunds: req.ProofOfFunds,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}
	resp := transport.FromDomain(buyer)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// AddPreference appends a preference record. Inverted price ranges are
// rejected here since the scorer does not validate them.
func (s *Service) AddPreference(ctx context.Context, buyerID uuid.UUID, req transport.CreatePreferenceRequest) (*transport.PreferenceResponse, error) {
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, apperr.Validation("minPrice cannot exceed maxPrice")
	}

	if _, err := s.repo.FindByID(ctx, buyerID); err != nil {
		return nil, err
	}

	pref, err := s.repo.AddPreference(ctx, repository.CreatePreferenceParams{
		BuyerID:       buyerID,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		Areas:         req.Areas,
		PropertyTypes: req.PropertyTypes,
	})
	if err != nil {
		appErr := apperr.Internal("failed to add preference").WithOp("buyers.AddPreference")
		appErr.Err = err
		return nil, appErr
	}

	resp := transport.PreferenceFromDomain(pref)
	return &resp, nil
}

func (s *Service) DeletePreference(ctx context.Context, buyerID, prefID uuid.UUID) error {
	return s.repo.DeletePreference(ctx, buyerID, prefID)
}

func normalizePhone(raw *string) *string {
	if raw == nil || *raw == "" {
		return raw
	}
	normalized := phone.NormalizeE164(*raw)
	return &normalized
}
