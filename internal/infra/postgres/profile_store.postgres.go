package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
	"github.com/google/uuid"
)

// ProfileStore reads profile rows. Profiles are written by the auth
// provisioning flow, not by this service, so the store is read-only here.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	query := `
		SELECT id, email, display_name, role, company_name, phone, is_active, created_at, updated_at
		FROM profiles WHERE id = $1`

	var p profile.Profile
	var role string
	var displayName, companyName, phone sql.NullString
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID,
		&p.Email,
		&displayName,
		&role,
		&companyName,
		&phone,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, domainErr.ErrProfileNotFound
	}
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	parsed, err := profile.ParseRole(role)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("profile %s carries invalid role %q", userID, role)
	}
	p.Role = parsed
	p.DisplayName = displayName.String
	p.CompanyName = companyName.String
	p.Phone = phone.String
	return p, nil
}
