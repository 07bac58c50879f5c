package domain

import (
	"time"

	"github.com/google/uuid"
)

// Buyer is an investor who purchases contracts. A buyer carries zero or
// more preference records; matching reads the first one.
type Buyer struct {
	ID           uuid.UUID
	Name         string
	Email        *string
	Phone        *string
	CashBuyer    bool
	ProofOfFunds *float64
	Notes        *string
	Preferences  []Preference
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Preference is a buyer's stated deal criteria.
type Preference struct {
	ID            uuid.UUID
	BuyerID       uuid.UUID
	MinPrice      *float64
	MaxPrice      *float64
	Areas         []string
	PropertyTypes []string
	CreatedAt     time.Time
}
