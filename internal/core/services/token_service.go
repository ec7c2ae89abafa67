package services

import (
	"fmt"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/middleware"
	"github.com/eduinvest/eduinvest_backend/internal/platform/config"
	"github.com/golang-jwt/jwt/v5"
)

// tokenService issues signed JWT access tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new token service.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken issues a token carrying the user's ID and role.
func (s *tokenService) GenerateAccessToken(user domain.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.cfg.JWTExpiryDuration)

	claims := middleware.AccessClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    s.cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}
