package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintlab/sprint-api/internal/config"
)

const testSecret = "test-jwt-secret-that-is-long-enough!"

// signTestToken builds a token the way the issuing platform does.
func signTestToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func standardClaims(userID uuid.UUID, now time.Time, lifetime time.Duration) *jwtCustomClaims {
	return &jwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.NewString(),
		},
	}
}

func newTestService(t *testing.T, now time.Time) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)

	impl, ok := svc.(*hmacJWTService)
	require.True(t, ok)
	impl.timeFunc = func() time.Time { return now }
	return impl
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{})
	assert.Error(t, err)
}

func TestValidateTokenSuccess(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)
	userID := uuid.New()

	token := signTestToken(t, testSecret, jwt.SigningMethodHS256, standardClaims(userID, now, time.Hour))

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func TestValidateTokenMissing(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())

	_, err := svc.ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)

	// Issued two hours ago with a one hour lifetime, well past the leeway.
	token := signTestToken(t, testSecret, jwt.SigningMethodHS256,
		standardClaims(uuid.New(), now.Add(-2*time.Hour), time.Hour))

	_, err := svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)

	// Expired one minute ago, inside the two minute tolerance.
	token := signTestToken(t, testSecret, jwt.SigningMethodHS256,
		standardClaims(uuid.New(), now.Add(-time.Hour), time.Hour-time.Minute))

	_, err := svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)

	token := signTestToken(t, "a-completely-different-signing-secret", jwt.SigningMethodHS256,
		standardClaims(uuid.New(), now, time.Hour))

	_, err := svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongAlgorithm(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)

	token := signTestToken(t, testSecret, jwt.SigningMethodHS512,
		standardClaims(uuid.New(), now, time.Hour))

	_, err := svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenMissingUserID(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, now)

	claims := standardClaims(uuid.New(), now, time.Hour)
	claims.UserID = uuid.Nil
	token := signTestToken(t, testSecret, jwt.SigningMethodHS256, claims)

	_, err := svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())

	_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
