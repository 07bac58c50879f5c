package transport

import (
	"time"

	"wholesale_crm_backend/internal/leads/domain"
)

type PropertyPayload struct {
	AddressLine  string   `json:"addressLine" validate:"required,max=200"`
	City         string   `json:"city" validate:"required,max=100"`
	State        string   `json:"state" validate:"required,len=2"`
	ZipCode      string   `json:"zipCode" validate:"required,max=10"`
	PropertyType *string  `json:"propertyType" validate:"omitempty,max=60"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	Bedrooms     *int     `json:"bedrooms" validate:"omitempty,min=0,max=50"`
	Bathrooms    *int     `json:"bathrooms" validate:"omitempty,min=0,max=50"`
	SquareFeet   *int     `json:"squareFeet" validate:"omitempty,gt=0"`
}

type CreateLeadRequest struct {
	SellerName  string          `json:"sellerName" validate:"required,max=150"`
	SellerPhone string          `json:"sellerPhone" validate:"required,max=32"`
	SellerEmail *string         `json:"sellerEmail" validate:"omitempty,email"`
	Source      *string         `json:"source" validate:"omitempty,max=60"`
	AssignedTo  *string         `json:"assignedTo" validate:"omitempty,uuid"`
	Notes       *string         `json:"notes" validate:"omitempty,max=4000"`
	Property    PropertyPayload `json:"property" validate:"required"`
}

type UpdateLeadRequest struct {
	SellerName  string          `json:"sellerName" validate:"required,max=150"`
	SellerPhone string          `json:"sellerPhone" validate:"required,max=32"`
	SellerEmail *string         `json:"sellerEmail" validate:"omitempty,email"`
	Source      *string         `json:"source" validate:"omitempty,max=60"`
	AssignedTo  *string         `json:"assignedTo" validate:"omitempty,uuid"`
	Notes       *string         `json:"notes" validate:"omitempty,max=4000"`
	Property    PropertyPayload `json:"property" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

type ListLeadsRequest struct {
	Status     string `form:"status" validate:"omitempty,max=32"`
	AssignedTo string `form:"assignedTo" validate:"omitempty,uuid"`
	City       string `form:"city" validate:"omitempty,max=100"`
	Search     string `form:"search" validate:"omitempty,max=100"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" validate:"omitempty,min=0"`
}

type PropertyResponse struct {
	ID           string   `json:"id"`
	AddressLine  string   `json:"addressLine"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zipCode"`
	PropertyType *string  `json:"propertyType"`
	Price        *float64 `json:"price"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms"`
	SquareFeet   *int     `json:"squareFeet"`
}

type LeadResponse struct {
	ID          string           `json:"id"`
	SellerName  string           `json:"sellerName"`
	SellerPhone string           `json:"sellerPhone"`
	SellerEmail *string          `json:"sellerEmail"`
	Source      *string          `json:"source"`
	Status      string           `json:"status"`
	AssignedTo  *string          `json:"assignedTo"`
	Notes       *string          `json:"notes"`
	Property    PropertyResponse `json:"property"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

// FromDomain maps a domain lead onto the wire shape.
func FromDomain(lead domain.Lead) LeadResponse {
	var assignedTo *string
	if lead.AssignedTo != nil {
		s := lead.AssignedTo.String()
		assignedTo = &s
	}
	return LeadResponse{
		ID:          lead.ID.String(),
		SellerName:  lead.SellerName,
		SellerPhone: lead.SellerPhone,
		SellerEmail: lead.SellerEmail,
		Source:      lead.Source,
		Status:      string(lead.Status),
		AssignedTo:  assignedTo,
		Notes:       lead.Notes,
		Property: PropertyResponse{
			ID:           lead.Property.ID.String(),
			AddressLine:  lead.Property.AddressLine,
			City:         lead.Property.City,
			State:        lead.Property.State,
			ZipCode:      lead.Property.ZipCode,
			PropertyType: lead.Property.PropertyType,
			Price:        lead.Property.Price,
			Bedrooms:     lead.Property.Bedrooms,
			Bathrooms:    lead.Property.Bathrooms,
			SquareFeet:   lead.Property.SquareFeet,
		},
		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
	}
}
