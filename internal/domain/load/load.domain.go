package load

import (
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/google/uuid"
)

// Status is the enumerated lifecycle state of a load. The persisted-state
// contract: the status column is always one of these six values.
type Status string

const (
	StatusCreated   Status = "created"
	StatusTendered  Status = "tendered"
	StatusBooked    Status = "booked"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusClosed    Status = "closed"
)

// ParseStatus validates a status string read from storage or a request.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCreated, StatusTendered, StatusBooked, StatusInTransit, StatusDelivered, StatusClosed:
		return Status(s), nil
	}
	return "", domainErr.ErrInvalidInput
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool { return s == StatusClosed }

// Load is a single transportation order moving cargo from an origin to a
// destination. Loads are created by admins with StatusCreated and are never
// deleted; they only move through the lifecycle.
type Load struct {
	ID            uuid.UUID  `json:"id"`
	LoadNumber    string     `json:"load_number"` // unique, human-assigned
	Status        Status     `json:"status"`
	OriginID      *uuid.UUID `json:"origin_id,omitempty"`
	DestinationID *uuid.UUID `json:"destination_id,omitempty"`
	ShipperID     *uuid.UUID `json:"shipper_id,omitempty"`
	CarrierID     *uuid.UUID `json:"carrier_id,omitempty"` // nil until tendered/booked
	PickupDate    *time.Time `json:"pickup_date,omitempty"`
	DeliveryDate  *time.Time `json:"delivery_date,omitempty"`
	Weight        *float64   `json:"weight,omitempty"`
	Pieces        *int32     `json:"pieces,omitempty"`
	Commodity     string     `json:"commodity,omitempty"`
	EquipmentType string     `json:"equipment_type,omitempty"`
	Rate          *float64   `json:"rate,omitempty"`
	CarrierRate   *float64   `json:"carrier_rate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Validate checks the invariants a load must satisfy before it is stored.
func (l Load) Validate() error {
	if l.LoadNumber == "" {
		return domainErr.ErrInvalidInput
	}
	if _, err := ParseStatus(string(l.Status)); err != nil {
		return err
	}
	return nil
}
