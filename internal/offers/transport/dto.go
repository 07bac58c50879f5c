package transport

import (
	"time"

	"wholesale_crm_backend/internal/offers/domain"
)

type CreateOfferRequest struct {
	LeadID  string  `json:"leadId" validate:"required,uuid"`
	BuyerID string  `json:"buyerId" validate:"required,uuid"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Notes   *string `json:"notes" validate:"omitempty,max=4000"`
}

type UpdateOfferStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT SENT ACCEPTED REJECTED WITHDRAWN"`
}

type ListOffersRequest struct {
	LeadID  string `form:"leadId" validate:"omitempty,uuid"`
	BuyerID string `form:"buyerId" validate:"omitempty,uuid"`
	Status  string `form:"status" validate:"omitempty,oneof=DRAFT SENT ACCEPTED REJECTED WITHDRAWN"`
}

type OfferResponse struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	BuyerID   string    `json:"buyerId"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OfferListResponse struct {
	Items []OfferResponse `json:"items"`
	Total int             `json:"total"`
}

func FromDomain(offer domain.Offer) OfferResponse {
	return OfferResponse{
		ID:        offer.ID.String(),
		LeadID:    offer.LeadID.String(),
		BuyerID:   offer.BuyerID.String(),
		Amount:    offer.Amount,
		Status:    string(offer.Status),
		Notes:     offer.Notes,
		CreatedAt: offer.CreatedAt,
		UpdatedAt: offer.UpdatedAt,
	}
}
