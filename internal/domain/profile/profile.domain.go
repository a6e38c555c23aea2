package profile

import (
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/google/uuid"
)

// Role is the authority a profile carries. It gates which lifecycle actions
// the load transition table offers; the table itself lives in domain/load.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCarrier Role = "carrier"
	RoleShipper Role = "shipper"
	RoleViewer  Role = "viewer"
)

// ParseRole validates a role string coming from storage or a token claim.
// The persisted-state contract says role is always one of the four values;
// anything else is treated as invalid input, never silently defaulted.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCarrier, RoleShipper, RoleViewer:
		return Role(s), nil
	}
	return "", domainErr.ErrInvalidInput
}

// Profile is the authenticated user's role and contact metadata, separate
// from their auth credentials (those live in the external auth provider).
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        Role      `json:"role"`
	CompanyName string    `json:"company_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fallback builds the profile used when the profile row cannot be fetched
// during session bootstrap. It fails closed: least-privilege viewer role.
func Fallback(userID uuid.UUID, email string) Profile {
	return Profile{
		ID:       userID,
		Email:    email,
		Role:     RoleViewer,
		IsActive: true,
	}
}
