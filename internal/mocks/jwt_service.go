package mocks

import (
	"context"

	"github.com/sprintlab/sprint-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// Custom behavior function
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default response values used when no Fn is provided
	Claims *auth.Claims
	Err    error
}

// Ensure MockJWTService implements the interface
var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.Err
}
