package repository

import (
	"context"

	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
	"github.com/google/uuid"
)

// ProfileStore fetches the role/contact record tied to an auth user id.
type ProfileStore interface {
	// GetProfile returns ErrProfileNotFound when the user has no row.
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
}
