package transport

import (
	"time"

	"wholesale_crm_backend/internal/buyers/domain"
)

type CreateBuyerRequest struct {
	Name         string   `json:"name" validate:"required,max=150"`
	Email        *string  `json:"email" validate:"omitempty,email"`
	Phone        *string  `json:"phone" validate:"omitempty,max=32"`
	CashBuyer    bool     `json:"cashBuyer"`
	ProofOfFunds *float64 `json:"proofOfFunds" validate:"omitempty,gt=0"`
	Notes        *string  `json:"notes" validate:"omitempty,max=4000"`
}

type UpdateBuyerRequest = CreateBuyerRequest

type CreatePreferenceRequest struct {
	MinPrice      *float64 `json:"minPrice" validate:"omitempty,gt=0"`
	MaxPrice      *float64 `json:"maxPrice" validate:"omitempty,gt=0"`
	Areas         []string `json:"areas" validate:"omitempty,dive,max=100"`
	PropertyTypes []string `json:"propertyTypes" validate:"omitempty,dive,max=60"`
}

type PreferenceResponse struct {
	ID            string    `json:"id"`
	MinPrice      *float64  `json:"minPrice"`
	MaxPrice      *float64  `json:"maxPrice"`
	Areas         []string  `json:"areas"`
	PropertyTypes []string  `json:"propertyTypes"`
	CreatedAt     time.Time `json:"createdAt"`
}

type BuyerResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Email        *string              `json:"email"`
	Phone        *string              `json:"phone"`
	CashBuyer    bool                 `json:"cashBuyer"`
	ProofOfFunds *float64             `json:"proofOfFunds"`
	Notes        *string              `json:"notes"`
	Preferences  []PreferenceResponse `json:"preferences"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

type BuyerListResponse struct {
	Items []BuyerResponse `json:"items"`
	Total int             `json:"total"`
}

func FromDomain(buyer domain.Buyer) BuyerResponse {
	prefs := make([]PreferenceResponse, len(buyer.Preferences))
	for i, pref := range buyer.Preferences {
		prefs[i] = PreferenceFromDomain(pref)
	}
	return BuyerResponse{
		ID:           buyer.ID.String(),
		Name:         buyer.Name,
		Email:        buyer.Email,
		Phone:        buyer.Phone,
		CashBuyer:    buyer.CashBuyer,
		ProofOfFunds: buyer.ProofOfFunds,
		Notes:        buyer.Notes,
		Preferences:  prefs,
		CreatedAt:    buyer.CreatedAt,
		UpdatedAt:    buyer.UpdatedAt,
	}
}

func PreferenceFromDomain(pref domain.Preference) PreferenceResponse {
	areas := pref.Areas
	if areas == nil {
		areas = []string{}
	}
	types := pref.PropertyTypes
	if types == nil {
		types = []string{}
	}
	return PreferenceResponse{
		ID:            pref.ID.String(),
		MinPrice:      pref.MinPrice,
		MaxPrice:      pref.MaxPrice,
		Areas:         areas,
		PropertyTypes: types,
		CreatedAt:     pref.CreatedAt,
	}
}
