package party

import (
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/google/uuid"
)

// Carrier is the transport provider assigned to physically move a load.
type Carrier struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	MCNumber     string     `json:"mc_number,omitempty"`
	DOTNumber    string     `json:"dot_number,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	Zip          string     `json:"zip,omitempty"`
	Country      string     `json:"country,omitempty"`
	InsuranceExp *time.Time `json:"insurance_expiry,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (c Carrier) Validate() error {
	if c.Name == "" {
		return domainErr.ErrInvalidInput
	}
	return nil
}

// Shipper is the customer requesting transportation of goods.
type Shipper struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	BillingContact string    `json:"billing_contact,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	Zip            string    `json:"zip,omitempty"`
	Country        string    `json:"country,omitempty"`
	PaymentTerms   *int32    `json:"payment_terms,omitempty"` // net days
	CreditLimit    *float64  `json:"credit_limit,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (s Shipper) Validate() error {
	if s.Name == "" {
		return domainErr.ErrInvalidInput
	}
	return nil
}

// LocationType classifies a location record.
type LocationType string

const (
	LocationPickup    LocationType = "pickup"
	LocationDelivery  LocationType = "delivery"
	LocationWarehouse LocationType = "warehouse"
	LocationOffice    LocationType = "office"
)

// Location is a named address loads originate from or deliver to.
type Location struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Type         LocationType `json:"type"`
	Address      string       `json:"address"`
	City         string       `json:"city,omitempty"`
	State        string       `json:"state,omitempty"`
	Zip          string       `json:"zip,omitempty"`
	Country      string       `json:"country,omitempty"`
	ContactName  string       `json:"contact_name,omitempty"`
	ContactPhone string       `json:"contact_phone,omitempty"`
	ContactEmail string       `json:"contact_email,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (l Location) Validate() error {
	if l.Name == "" || l.Address == "" {
		return domainErr.ErrInvalidInput
	}
	switch l.Type {
	case LocationPickup, LocationDelivery, LocationWarehouse, LocationOffice:
		return nil
	}
	return domainErr.ErrInvalidInput
}
