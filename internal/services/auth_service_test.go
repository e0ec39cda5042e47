package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"sklink/internal/models"
	"sklink/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type officialRepoMock struct {
	repositories.OfficialRepository
	official *models.Official
}

func (m *officialRepoMock) GetByIdentifier(ctx context.Context, identifier string) (*models.Official, error) {
	if m.official == nil {
		return nil, sql.ErrNoRows
	}
	return m.official, nil
}

type youthRepoMock struct {
	repositories.YouthRepository
	youth *models.Youth
}

func (m *youthRepoMock) GetByIdentifier(ctx context.Context, identifier string) (*models.Youth, error) {
	if m.youth == nil {
		return nil, sql.ErrNoRows
	}
	return m.youth, nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(officials repositories.OfficialRepository, youths repositories.YouthRepository) AuthService {
	return NewAuthService(officials, youths, &AuthConfig{
		JWTSecret:   []byte("test-secret"),
		TokenExpiry: time.Hour,
	}, zap.NewNop())
}

func TestLoginOfficial(t *testing.T) {
	official := &models.Official{
		ID:           5,
		Username:     "kapitan",
		Role:         models.RoleSuperOfficial,
		PasswordHash: hashFor(t, "s3cretpass"),
	}
	svc := newAuthFixture(&officialRepoMock{official: official}, &youthRepoMock{})

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Identifier: "kapitan",
		Password:   "s3cretpass",
		Kind:       models.ActorOfficial,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ActorOfficial, resp.Kind)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, official, resp.Principal)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	official := &models.Official{ID: 5, PasswordHash: hashFor(t, "rightpass")}
	svc := newAuthFixture(&officialRepoMock{official: official}, &youthRepoMock{})

	_, wrongPassErr := svc.Login(context.Background(), &LoginRequest{
		Identifier: "kapitan",
		Password:   "wrongpass",
		Kind:       models.ActorOfficial,
	})
	require.Error(t, wrongPassErr)

	empty := newAuthFixture(&officialRepoMock{}, &youthRepoMock{})
	_, unknownErr := empty.Login(context.Background(), &LoginRequest{
		Identifier: "nobody",
		Password:   "whatever1",
		Kind:       models.ActorOfficial,
	})
	require.Error(t, unknownErr)

	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
	assert.Equal(t, 401, GetServiceError(wrongPassErr).GetStatusCode())
	assert.Equal(t, 401, GetServiceError(unknownErr).GetStatusCode())
}

func TestLoginRejectsUnknownKind(t *testing.T) {
	svc := newAuthFixture(&officialRepoMock{}, &youthRepoMock{})

	_, err := svc.Login(context.Background(), &LoginRequest{
		Identifier: "someone",
		Password:   "whatever1",
		Kind:       "robot",
	})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestIssueTokenClaims(t *testing.T) {
	svc := newAuthFixture(&officialRepoMock{}, &youthRepoMock{})

	token, expiresAt, err := svc.IssueToken(models.Actor{Kind: models.ActorOfficial, ID: 9}, models.RoleNaturalOfficial)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)

	assert.Equal(t, "official", claims["userType"])
	assert.Equal(t, float64(9), claims["id"])
	assert.Equal(t, models.RoleNaturalOfficial, claims["role"])
}

func TestIssueTokenOmitsEmptyRole(t *testing.T) {
	svc := newAuthFixture(&officialRepoMock{}, &youthRepoMock{})

	token, _, err := svc.IssueToken(models.Actor{Kind: models.ActorYouth, ID: 4}, "")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)

	assert.Equal(t, "youth", claims["userType"])
	_, hasRole := claims["role"]
	assert.False(t, hasRole)
}
