package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a prospective seller moving through the acquisition pipeline.
// Every lead owns exactly one Property.
type Lead struct {
	ID          uuid.UUID
	SellerName  string
	SellerPhone string
	SellerEmail *string
	Source      *string
	Status      Status
	AssignedTo  *uuid.UUID
	Notes       *string
	Property    Property
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Property is the subject parcel of a lead. Price and type are optional
// because intake often happens before a walkthrough.
type Property struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	AddressLine  string
	City         string
	State        string
	ZipCode      string
	PropertyType *string
	Price        *float64
	Bedrooms     *int
	Bathrooms    *int
	SquareFeet   *int
}
