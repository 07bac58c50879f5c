package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wholesale_crm_backend/internal/events"
	"wholesale_crm_backend/internal/leads/domain"
	"wholesale_crm_backend/internal/leads/ports"
	"wholesale_crm_backend/internal/leads/repository"
	"wholesale_crm_backend/internal/leads/transport"
	"wholesale_crm_backend/platform/apperr"
	"wholesale_crm_backend/platform/logger"
	"wholesale_crm_backend/platform/phone"
)

// LeadStore is the repository surface the service uses. The concrete
// pgx repository satisfies it; tests use fakes.
type LeadStore interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (domain.Lead, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, filter repository.ListFilter) ([]domain.Lead, int, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams) (domain.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo     LeadStore
	followUp ports.FollowUpGenerator
	bus      events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(repo LeadStore, followUp ports.FollowUpGenerator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		followUp: followUp,
		bus:      bus,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create inserts a new lead in status NEW, generates its first follow-up
// task, and publishes LeadCreated.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, actor uuid.UUID) (*transport.LeadResponse, error) {
	assignedTo, err := parseOptionalUUID(req.AssignedTo)
	if err != nil {
		return nil, apperr.Validation("assignedTo is not a valid id")
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		SellerName:   req.SellerName,
		SellerPhone:  phone.NormalizeE164(req.SellerPhone),
		SellerEmail:  req.SellerEmail,
		Source:       req.Source,
		AssignedTo:   assignedTo,
		Notes:        req.Notes,
		AddressLine:  req.Property.AddressLine,
		City:         req.Property.City,
		State:        req.Property.State,
		ZipCode:      req.Property.ZipCode,
		PropertyType: req.Property.PropertyType,
		Price:        req.Property.Price,
		Bedrooms:     req.Property.Bedrooms,
		Bathrooms:    req.Property.Bathrooms,
		SquareFeet:   req.Property.SquareFeet,
	})
	if err != nil {
		appErr := apperr.Internal("failed to create lead").WithOp("leads.Create")
		appErr.Err = err
		return nil, appErr
	}

	s.generateFollowUp(ctx, lead.ID, domain.StatusNew, assigneeOrActor(assignedTo, actor))

	source := ""
	if lead.Source != nil {
		source = *lead.Source
	}
	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		AssignedTo: lead.AssignedTo,
		Source:     source,
		City:       lead.Property.City,
		State:      lead.Property.State,
	})

	resp := transport.FromDomain(lead)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.LeadResponse, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.FromDomain(lead)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (*transport.LeadListResponse, error) {
	filter := repository.ListFilter{
		City:   req.City,
		Search: req.Search,
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if req.Status != "" {
		status, ok := domain.Parse(req.Status)
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("unknown status %q", req.Status))
		}
		filter.Status = &status
	}
	if req.AssignedTo != "" {
		id, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			return nil, apperr.Validation("assignedTo is not a valid id")
		}
		filter.AssignedTo = &id
	}

	leads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		appErr := apperr.Internal("failed to list leads").WithOp("leads.List")
		appErr.Err = err
		return nil, appErr
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = transport.FromDomain(lead)
	}
	return &transport.LeadListResponse{Items: items, Total: total}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (*transport.LeadResponse, error) {
	assignedTo, err := parseOptionalUUID(req.AssignedTo)
	if err != nil {
		return nil, apperr.Validation("assignedTo is not a valid id")
	}

	lead, err := s.repo.Update(ctx, id, repository.UpdateLeadParams{
		SellerName:   req.SellerName,
		SellerPhone:  phone.NormalizeE164(req.SellerPhone),
		SellerEmail:  req.SellerEmail,
		Source:       req.Source,
		AssignedTo:   assignedTo,
		Notes:        req.Notes,
		AddressLine:  req.Property.AddressLine,
		City:         req.Property.City,
		State:        req.Property.State,
		ZipCode:      req.Property.ZipCode,
		PropertyType: req.Property.PropertyType,
		Price:        req.Property.Price,
		Bedrooms:     req.Property.Bedrooms,
		Bathrooms:    req.Property.Bathrooms,
		SquareFeet:   req.Property.SquareFeet,
	})
	if err != nil {
		return nil, err
	}
	resp := transport.FromDomain(lead)
	return &resp, nil
}

// UpdateStatus validates the transition, persists the new status,
// derives the follow-up task, and publishes LeadStatusChanged.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string, actor uuid.UUID) (*transport.LeadResponse, error) {
	newStatus, ok := domain.Parse(rawStatus)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown status %q", rawStatus))
	}

	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(lead.Status, newStatus) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot move lead from %s to %s", lead.Status, newStatus))
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}

	assignee := assigneeOrActor(lead.AssignedTo, actor)
	taskGenerated := s.generateFollowUp(ctx, id, newStatus, assignee)
	s.log.LeadTransition(id.String(), string(lead.Status), string(newStatus), taskGenerated)

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     id,
		FromStatus: string(lead.Status),
		ToStatus:   string(newStatus),
		ChangedBy:  actor,
	})

	updated := lead
	updated.Status = newStatus
	updated.UpdatedAt = s.now()
	resp := transport.FromDomain(updated)
	return &resp, nil
}

// MarkUnderContract is the OfferAccepted reaction. It tolerates leads
// already under contract so replayed events stay harmless.
func (s *Service) MarkUnderContract(ctx context.Context, leadID, actor uuid.UUID) error {
	lead, err := s.repo.FindByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.Status == domain.StatusUnderContract {
		return nil
	}
	if !domain.CanTransition(lead.Status, domain.StatusUnderContract) {
		return apperr.Conflict(fmt.Sprintf("cannot move lead from %s to %s", lead.Status, domain.StatusUnderContract))
	}

	_, err = s.UpdateStatus(ctx, leadID, string(domain.StatusUnderContract), actor)
	return err
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// generateFollowUp runs the transition rule through the port. A failed
// task insert does not roll back the status change; it is logged and the
// transition stands.
func (s *Service) generateFollowUp(ctx context.Context, leadID uuid.UUID, status domain.Status, assignee uuid.UUID) bool {
	if s.followUp == nil {
		return false
	}
	created, err := s.followUp.GenerateForTransition(ctx, leadID, status, assignee)
	if err != nil {
		s.log.Warn("follow-up task generation failed",
			"lead_id", leadID.String(),
			"status", string(status),
			"error", err.Error(),
		)
		return false
	}
	return created
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func assigneeOrActor(assigned *uuid.UUID, actor uuid.UUID) uuid.UUID {
	if assigned != nil {
		return *assigned
	}
	return actor
}
