package security

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type PraxidoIdentity struct {
	UserID     uuid.UUID
	PracticeID uuid.UUID
	Role       string
}

type IdentityClaims struct {
	PracticeID string `json:"practiceId"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// CreateIdentityToken mints a signed identity token for development and
// device provisioning. The real identity provider lives outside this repo.
func CreateIdentityToken(identity *PraxidoIdentity, base64Secret string, expiresIn time.Duration) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}
	claims := IdentityClaims{
		PracticeID: identity.PracticeID.String(),
		Role:       identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			Issuer:    "praxido",
			Audience:  []string{"praxido.de"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}

	// Use HS256 signing method (symmetric key)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretBytes)
}
