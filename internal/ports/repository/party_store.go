package repository

import (
	"context"

	"github.com/JaserAkuly/EvolveTMS/internal/domain/party"
	"github.com/google/uuid"
)

// CarrierStore manages carrier records.
type CarrierStore interface {
	GetCarrier(ctx context.Context, id uuid.UUID) (party.Carrier, error)
	ListCarriers(ctx context.Context, activeOnly bool) ([]party.Carrier, error)
	CreateCarrier(ctx context.Context, c party.Carrier) (party.Carrier, error)
}

// ShipperStore manages shipper records.
type ShipperStore interface {
	GetShipper(ctx context.Context, id uuid.UUID) (party.Shipper, error)
	ListShippers(ctx context.Context, activeOnly bool) ([]party.Shipper, error)
	CreateShipper(ctx context.Context, s party.Shipper) (party.Shipper, error)
}

// LocationStore manages location records.
type LocationStore interface {
	GetLocation(ctx context.Context, id uuid.UUID) (party.Location, error)
	ListLocations(ctx context.Context) ([]party.Location, error)
	CreateLocation(ctx context.Context, l party.Location) (party.Location, error)
}
