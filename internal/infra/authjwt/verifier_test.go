package authjwt

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testIssuer = "evolvetms-auth"

var testSecret = []byte("test-signing-secret")

func mintToken(t *testing.T, secret []byte, sub, email, issuer string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"iss":   issuer,
		"exp":   exp.Unix(),
	})
	signed, err := tok.SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestVerify(t *testing.T) {
	userID := uuid.New()
	v := NewVerifier(testSecret, testIssuer)

	token := mintToken(t, testSecret, userID.String(), "ops@example.com", testIssuer, time.Now().Add(time.Hour))
	user, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if user.ID != userID || user.Email != "ops@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestVerifyRejections(t *testing.T) {
	userID := uuid.New()
	v := NewVerifier(testSecret, testIssuer)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", mintToken(t, []byte("other"), userID.String(), "a@b.c", testIssuer, time.Now().Add(time.Hour))},
		{"expired", mintToken(t, testSecret, userID.String(), "a@b.c", testIssuer, time.Now().Add(-time.Minute))},
		{"wrong issuer", mintToken(t, testSecret, userID.String(), "a@b.c", "someone-else", time.Now().Add(time.Hour))},
		{"non-uuid subject", mintToken(t, testSecret, "not-a-uuid", "a@b.c", testIssuer, time.Now().Add(time.Hour))},
		{"garbage", "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(context.Background(), tt.token); !errors.Is(err, domainErr.ErrInvalidToken) {
				t.Fatalf("Verify(%s) error = %v, want ErrInvalidToken", tt.name, err)
			}
		})
	}
}
