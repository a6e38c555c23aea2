package authjwt

import (
	"context"
	"fmt"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/ports/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verifier validates HMAC-signed bearer tokens minted by the auth service.
// Claims: sub carries the user id, email the address.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret []byte, issuer string) *Verifier {
	return &Verifier{secret: secret, issuer: issuer}
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return auth.User{}, domainErr.ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return auth.User{}, domainErr.ErrInvalidToken
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return auth.User{}, domainErr.ErrInvalidToken
	}
	return auth.User{ID: userID, Email: c.Email}, nil
}
