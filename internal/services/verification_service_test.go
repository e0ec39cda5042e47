package services

import (
	"context"
	"database/sql"
	"testing"

	"sklink/internal/models"
	"sklink/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type verifyRepoMock struct {
	repositories.YouthRepository
	verifyErr  error
	listFilter repositories.YouthListFilter
}

func (m *verifyRepoMock) Verify(ctx context.Context, id int64) error {
	return m.verifyErr
}

func (m *verifyRepoMock) List(ctx context.Context, filter repositories.YouthListFilter, params models.PaginationParams) ([]*models.Youth, models.PaginationMeta, error) {
	m.listFilter = filter
	return nil, models.PaginationMeta{}, nil
}

func TestVerifySucceeds(t *testing.T) {
	svc := NewVerificationService(&verifyRepoMock{}, zap.NewNop())
	assert.NoError(t, svc.Verify(context.Background(), 1))
}

func TestVerifyRepeatReportsNotFound(t *testing.T) {
	// The guarded update matches zero rows for an already-verified youth.
	svc := NewVerificationService(&verifyRepoMock{verifyErr: sql.ErrNoRows}, zap.NewNop())

	err := svc.Verify(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.Equal(t, 404, GetServiceError(err).GetStatusCode())
}

func TestListPendingFiltersUnverified(t *testing.T) {
	repo := &verifyRepoMock{}
	svc := NewVerificationService(repo, zap.NewNop())

	_, _, err := svc.ListPending(context.Background(), models.PaginationParams{Limit: 20})

	require.NoError(t, err)
	require.NotNil(t, repo.listFilter.Verified)
	assert.False(t, *repo.listFilter.Verified)
	assert.False(t, repo.listFilter.Deleted)
}
