package memory

import (
	"context"
	"sync"
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/invoice"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/party"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
	"github.com/google/uuid"
)

// ProfileStore is an in-memory ProfileStore.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]profile.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[uuid.UUID]profile.Profile)}
}

func (s *ProfileStore) Put(p profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *ProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	select {
	case <-ctx.Done():
		return profile.Profile{}, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return profile.Profile{}, domainErr.ErrProfileNotFound
	}
	return p, nil
}

// CarrierStore is an in-memory CarrierStore.
type CarrierStore struct {
	mu       sync.RWMutex
	carriers map[uuid.UUID]party.Carrier
}

func NewCarrierStore() *CarrierStore {
	return &CarrierStore{carriers: make(map[uuid.UUID]party.Carrier)}
}

func (s *CarrierStore) GetCarrier(ctx context.Context, id uuid.UUID) (party.Carrier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carriers[id]
	if !ok {
		return party.Carrier{}, domainErr.ErrRecordNotFound
	}
	return c, nil
}

func (s *CarrierStore) ListCarriers(ctx context.Context, activeOnly bool) ([]party.Carrier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []party.Carrier
	for _, c := range s.carriers {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *CarrierStore) CreateCarrier(ctx context.Context, c party.Carrier) (party.Carrier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.carriers[c.ID] = c
	return c, nil
}

// ShipperStore is an in-memory ShipperStore.
type ShipperStore struct {
	mu       sync.RWMutex
	shippers map[uuid.UUID]party.Shipper
}

func NewShipperStore() *ShipperStore {
	return &ShipperStore{shippers: make(map[uuid.UUID]party.Shipper)}
}

func (s *ShipperStore) GetShipper(ctx context.Context, id uuid.UUID) (party.Shipper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shippers[id]
	if !ok {
		return party.Shipper{}, domainErr.ErrRecordNotFound
	}
	return sh, nil
}

func (s *ShipperStore) ListShippers(ctx context.Context, activeOnly bool) ([]party.Shipper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []party.Shipper
	for _, sh := range s.shippers {
		if activeOnly && !sh.IsActive {
			continue
		}
		out = append(out, sh)
	}
	return out, nil
}

func (s *ShipperStore) CreateShipper(ctx context.Context, sh party.Shipper) (party.Shipper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh.ID == uuid.Nil {
		sh.ID = uuid.New()
	}
	sh.CreatedAt = time.Now()
	sh.UpdatedAt = sh.CreatedAt
	s.shippers[sh.ID] = sh
	return sh, nil
}

// LocationStore is an in-memory LocationStore.
type LocationStore struct {
	mu        sync.RWMutex
	locations map[uuid.UUID]party.Location
}

func NewLocationStore() *LocationStore {
	return &LocationStore{locations: make(map[uuid.UUID]party.Location)}
}

func (s *LocationStore) GetLocation(ctx context.Context, id uuid.UUID) (party.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.locations[id]
	if !ok {
		return party.Location{}, domainErr.ErrRecordNotFound
	}
	return l, nil
}

func (s *LocationStore) ListLocations(ctx context.Context) ([]party.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]party.Location, 0, len(s.locations))
	for _, l := range s.locations {
		out = append(out, l)
	}
	return out, nil
}

func (s *LocationStore) CreateLocation(ctx context.Context, l party.Location) (party.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	s.locations[l.ID] = l
	return l, nil
}

// InvoiceStore is an in-memory InvoiceStore.
type InvoiceStore struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]invoice.Invoice
}

func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{invoices: make(map[uuid.UUID]invoice.Invoice)}
}

func (s *InvoiceStore) GetInvoice(ctx context.Context, id uuid.UUID) (invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return invoice.Invoice{}, domainErr.ErrInvoiceNotFound
	}
	return inv, nil
}

func (s *InvoiceStore) GetInvoiceByNumber(ctx context.Context, number string) (invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return invoice.Invoice{}, domainErr.ErrInvoiceNotFound
}

func (s *InvoiceStore) ListInvoices(ctx context.Context, status invoice.Status) ([]invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []invoice.Invoice
	for _, inv := range s.invoices {
		if status != "" && inv.Status != status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s *InvoiceStore) CreateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	s.invoices[inv.ID] = inv
	return inv, nil
}

func (s *InvoiceStore) MarkInvoicePaid(ctx context.Context, id uuid.UUID, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return domainErr.ErrInvoiceNotFound
	}
	if inv.Status == invoice.StatusPaid {
		return nil
	}
	now := time.Now()
	inv.Status = invoice.StatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	s.invoices[id] = inv
	return nil
}
