package services

import (
	"context"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	"github.com/eduinvest/eduinvest_backend/internal/dto"
)

// UserSvcFacade defines user registration and lookup operations.
type UserSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// TokenSvcFacade issues access tokens for authenticated users.
type TokenSvcFacade interface {
	GenerateAccessToken(user domain.User) (token string, expiresAt time.Time, err error)
}
