package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/party"
	"github.com/google/uuid"
)

// CarrierStore manages carrier rows.
type CarrierStore struct {
	db *sql.DB
}

func NewCarrierStore(db *sql.DB) *CarrierStore {
	return &CarrierStore{db: db}
}

func (s *CarrierStore) GetCarrier(ctx context.Context, id uuid.UUID) (party.Carrier, error) {
	query := `
		SELECT id, name, mc_number, dot_number, email, phone, address, city, state, zip,
			country, insurance_exp, is_active, created_at, updated_at
		FROM carriers WHERE id = $1`
	c, err := scanCarrier(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return party.Carrier{}, domainErr.ErrRecordNotFound
	}
	if err != nil {
		return party.Carrier{}, fmt.Errorf("failed to get carrier: %w", err)
	}
	return c, nil
}

func (s *CarrierStore) ListCarriers(ctx context.Context, activeOnly bool) ([]party.Carrier, error) {
	query := `
		SELECT id, name, mc_number, dot_number, email, phone, address, city, state, zip,
			country, insurance_exp, is_active, created_at, updated_at
		FROM carriers
		WHERE ($1 = false OR is_active = true)
		ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}
	defer rows.Close()

	var carriers []party.Carrier
	for rows.Next() {
		c, err := scanCarrier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan carrier: %w", err)
		}
		carriers = append(carriers, c)
	}
	return carriers, rows.Err()
}

func (s *CarrierStore) CreateCarrier(ctx context.Context, c party.Carrier) (party.Carrier, error) {
	query := `
		INSERT INTO carriers (name, mc_number, dot_number, email, phone, address, city,
			state, zip, country, insurance_exp, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		nullIfEmpty(c.MCNumber),
		nullIfEmpty(c.DOTNumber),
		nullIfEmpty(c.Email),
		nullIfEmpty(c.Phone),
		nullIfEmpty(c.Address),
		nullIfEmpty(c.City),
		nullIfEmpty(c.State),
		nullIfEmpty(c.Zip),
		nullIfEmpty(c.Country),
		c.InsuranceExp,
		c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return party.Carrier{}, fmt.Errorf("failed to insert carrier: %w", err)
	}
	return c, nil
}

func scanCarrier(sc scanner) (party.Carrier, error) {
	var c party.Carrier
	var mc, dot, email, phone, address, city, state, zip, country sql.NullString
	err := sc.Scan(&c.ID, &c.Name, &mc, &dot, &email, &phone, &address, &city, &state,
		&zip, &country, &c.InsuranceExp, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return party.Carrier{}, err
	}
	c.MCNumber = mc.String
	c.DOTNumber = dot.String
	c.Email = email.String
	c.Phone = phone.String
	c.Address = address.String
	c.City = city.String
	c.State = state.String
	c.Zip = zip.String
	c.Country = country.String
	return c, nil
}

// ShipperStore manages shipper rows.
type ShipperStore struct {
	db *sql.DB
}

func NewShipperStore(db *sql.DB) *ShipperStore {
	return &ShipperStore{db: db}
}

func (s *ShipperStore) GetShipper(ctx context.Context, id uuid.UUID) (party.Shipper, error) {
	query := `
		SELECT id, name, billing_contact, email, phone, address, city, state, zip,
			country, payment_terms, credit_limit, is_active, created_at, updated_at
		FROM shippers WHERE id = $1`
	sh, err := scanShipper(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return party.Shipper{}, domainErr.ErrRecordNotFound
	}
	if err != nil {
		return party.Shipper{}, fmt.Errorf("failed to get shipper: %w", err)
	}
	return sh, nil
}

func (s *ShipperStore) ListShippers(ctx context.Context, activeOnly bool) ([]party.Shipper, error) {
	query := `
		SELECT id, name, billing_contact, email, phone, address, city, state, zip,
			country, payment_terms, credit_limit, is_active, created_at, updated_at
		FROM shippers
		WHERE ($1 = false OR is_active = true)
		ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list shippers: %w", err)
	}
	defer rows.Close()

	var shippers []party.Shipper
	for rows.Next() {
		sh, err := scanShipper(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipper: %w", err)
		}
		shippers = append(shippers, sh)
	}
	return shippers, rows.Err()
}

func (s *ShipperStore) CreateShipper(ctx context.Context, sh party.Shipper) (party.Shipper, error) {
	query := `
		INSERT INTO shippers (name, billing_contact, email, phone, address, city, state,
			zip, country, payment_terms, credit_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		sh.Name,
		nullIfEmpty(sh.BillingContact),
		nullIfEmpty(sh.Email),
		nullIfEmpty(sh.Phone),
		nullIfEmpty(sh.Address),
		nullIfEmpty(sh.City),
		nullIfEmpty(sh.State),
		nullIfEmpty(sh.Zip),
		nullIfEmpty(sh.Country),
		sh.PaymentTerms,
		sh.CreditLimit,
		sh.IsActive,
	).Scan(&sh.ID, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		return party.Shipper{}, fmt.Errorf("failed to insert shipper: %w", err)
	}
	return sh, nil
}

func scanShipper(sc scanner) (party.Shipper, error) {
	var sh party.Shipper
	var billing, email, phone, address, city, state, zip, country sql.NullString
	err := sc.Scan(&sh.ID, &sh.Name, &billing, &email, &phone, &address, &city, &state,
		&zip, &country, &sh.PaymentTerms, &sh.CreditLimit, &sh.IsActive, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		return party.Shipper{}, err
	}
	sh.BillingContact = billing.String
	sh.Email = email.String
	sh.Phone = phone.String
	sh.Address = address.String
	sh.City = city.String
	sh.State = state.String
	sh.Zip = zip.String
	sh.Country = country.String
	return sh, nil
}

// LocationStore manages location rows.
type LocationStore struct {
	db *sql.DB
}

func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

func (s *LocationStore) GetLocation(ctx context.Context, id uuid.UUID) (party.Location, error) {
	query := `
		SELECT id, name, type, address, city, state, zip, country, contact_name,
			contact_phone, contact_email, notes, created_at, updated_at
		FROM locations WHERE id = $1`
	l, err := scanLocation(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return party.Location{}, domainErr.ErrRecordNotFound
	}
	if err != nil {
		return party.Location{}, fmt.Errorf("failed to get location: %w", err)
	}
	return l, nil
}

func (s *LocationStore) ListLocations(ctx context.Context) ([]party.Location, error) {
	query := `
		SELECT id, name, type, address, city, state, zip, country, contact_name,
			contact_phone, contact_email, notes, created_at, updated_at
		FROM locations ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []party.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (s *LocationStore) CreateLocation(ctx context.Context, l party.Location) (party.Location, error) {
	query := `
		INSERT INTO locations (name, type, address, city, state, zip, country,
			contact_name, contact_phone, contact_email, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		l.Name,
		l.Type,
		l.Address,
		l.City,
		l.State,
		l.Zip,
		nullIfEmpty(l.Country),
		nullIfEmpty(l.ContactName),
		nullIfEmpty(l.ContactPhone),
		nullIfEmpty(l.ContactEmail),
		nullIfEmpty(l.Notes),
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return party.Location{}, fmt.Errorf("failed to insert location: %w", err)
	}
	return l, nil
}

func scanLocation(sc scanner) (party.Location, error) {
	var l party.Location
	var locType string
	var country, contactName, contactPhone, contactEmail, notes sql.NullString
	err := sc.Scan(&l.ID, &l.Name, &locType, &l.Address, &l.City, &l.State, &l.Zip,
		&country, &contactName, &contactPhone, &contactEmail, &notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return party.Location{}, err
	}
	l.Type = party.LocationType(locType)
	l.Country = country.String
	l.ContactName = contactName.String
	l.ContactPhone = contactPhone.String
	l.ContactEmail = contactEmail.String
	l.Notes = notes.String
	return l, nil
}
