package usecase

import (
	"deskbook/internal/domain/identity"
	"deskbook/internal/pkg/jwt"

	"github.com/google/uuid"
)

type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, identity.Role, error)
}

type jwtTokenValidator struct {
	verifier *jwt.Verifier
}

func NewTokenValidator(verifier *jwt.Verifier) TokenValidator {
	return &jwtTokenValidator{verifier: verifier}
}

func (v *jwtTokenValidator) ValidateToken(token string) (uuid.UUID, identity.Role, error) {
	claims, err := v.verifier.Verify(token)
	if err != nil {
		return uuid.Nil, "", err
	}

	role, err := identity.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", err
	}

	return claims.UserID, role, nil
}
