//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"deskbook/internal/domain/identity"
	pkgjwt "deskbook/internal/pkg/jwt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Tokens are normally minted by the external identity service. Tests sign
// their own with the shared secret.
func SignToken(t *testing.T, secret string, userID uuid.UUID, role identity.Role) string {
	t.Helper()
	return signWithExpiry(t, secret, userID, role, time.Now().Add(time.Hour))
}

func SignExpiredToken(t *testing.T, secret string, userID uuid.UUID, role identity.Role) string {
	t.Helper()
	return signWithExpiry(t, secret, userID, role, time.Now().Add(-time.Hour))
}

func signWithExpiry(t *testing.T, secret string, userID uuid.UUID, role identity.Role, expiresAt time.Time) string {
	t.Helper()

	claims := pkgjwt.Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
