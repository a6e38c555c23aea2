package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/load"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// LoadStore manages load rows in postgres.
type LoadStore struct {
	db *sql.DB
}

func NewLoadStore(db *sql.DB) *LoadStore {
	return &LoadStore{db: db}
}

const loadColumns = `
	id, load_number, status, origin_id, destination_id, shipper_id, carrier_id,
	pickup_date, delivery_date, weight, pieces, commodity, equipment_type,
	rate, carrier_rate, notes, created_by, created_at, updated_at`

func (s *LoadStore) GetLoad(ctx context.Context, id uuid.UUID) (load.Load, error) {
	query := `SELECT` + loadColumns + ` FROM loads WHERE id = $1`
	l, err := scanLoad(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return load.Load{}, domainErr.ErrLoadNotFound
	}
	if err != nil {
		return load.Load{}, fmt.Errorf("failed to get load: %w", err)
	}
	return l, nil
}

func (s *LoadStore) ListLoads(ctx context.Context, filter repository.LoadFilter) ([]load.Load, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT` + loadColumns + `
		FROM loads
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, string(filter.Status), limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	defer rows.Close()

	var loads []load.Load
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load: %w", err)
		}
		loads = append(loads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loads, nil
}

func (s *LoadStore) CreateLoad(ctx context.Context, l load.Load) (load.Load, error) {
	query := `
		INSERT INTO loads (load_number, status, origin_id, destination_id, shipper_id,
			carrier_id, pickup_date, delivery_date, weight, pieces, commodity,
			equipment_type, rate, carrier_rate, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		l.LoadNumber,
		l.Status,
		l.OriginID,
		l.DestinationID,
		l.ShipperID,
		l.CarrierID,
		l.PickupDate,
		l.DeliveryDate,
		l.Weight,
		l.Pieces,
		nullIfEmpty(l.Commodity),
		nullIfEmpty(l.EquipmentType),
		l.Rate,
		l.CarrierRate,
		nullIfEmpty(l.Notes),
		l.CreatedBy,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return load.Load{}, domainErr.ErrDuplicateLoadNumber
	}
	if err != nil {
		return load.Load{}, fmt.Errorf("failed to insert load: %w", err)
	}
	return l, nil
}

// UpdateStatus is a compare-and-swap on the status column. The WHERE clause
// carries the expected status, so two racing transitions cannot silently
// overwrite each other; the loser sees ErrStaleStatus.
func (s *LoadStore) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next load.Status) error {
	query := `UPDATE loads SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`

	res, err := s.db.ExecContext(ctx, query, next, id, expected)
	if err != nil {
		return fmt.Errorf("failed to update load status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		// Either the load is gone or its status moved on. Disambiguate so
		// callers get the right taxonomy.
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM loads WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check load existence: %w", err)
		}
		if !exists {
			return domainErr.ErrLoadNotFound
		}
		return domainErr.ErrStaleStatus
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLoad(sc scanner) (load.Load, error) {
	var l load.Load
	var status string
	var commodity, equipmentType, notes sql.NullString
	err := sc.Scan(
		&l.ID,
		&l.LoadNumber,
		&status,
		&l.OriginID,
		&l.DestinationID,
		&l.ShipperID,
		&l.CarrierID,
		&l.PickupDate,
		&l.DeliveryDate,
		&l.Weight,
		&l.Pieces,
		&commodity,
		&equipmentType,
		&l.Rate,
		&l.CarrierRate,
		&notes,
		&l.CreatedBy,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return load.Load{}, err
	}
	parsed, err := load.ParseStatus(status)
	if err != nil {
		return load.Load{}, fmt.Errorf("load %s carries invalid status %q", l.ID, status)
	}
	l.Status = parsed
	l.Commodity = commodity.String
	l.EquipmentType = equipmentType.String
	l.Notes = notes.String
	return l, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
