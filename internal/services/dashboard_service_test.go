package services

import (
	"context"
	"testing"

	"sklink/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dashboardRepoMock struct {
	repositories.YouthRepository
}

func (m *dashboardRepoMock) CountByStatus(ctx context.Context) (int64, int64, int64, int64, error) {
	return 120, 90, 25, 5, nil
}

func (m *dashboardRepoMock) CountByGender(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{"male": 70, "female": 50}, nil
}

func (m *dashboardRepoMock) CountByPurok(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{"Purok Uno": 40, "unassigned": 80}, nil
}

func (m *dashboardRepoMock) CountBySKVoter(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{"yes": 100, "no": 20}, nil
}

func (m *dashboardRepoMock) AgeDistribution(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{"16-17": 20, "18-21": 50, "22-24": 30, "25-30": 20}, nil
}

func TestDashboardSummary(t *testing.T) {
	svc := NewDashboardService(&dashboardRepoMock{}, zap.NewNop())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(120), summary.TotalYouths)
	assert.Equal(t, int64(90), summary.Verified)
	assert.Equal(t, int64(25), summary.Unverified)
	assert.Equal(t, int64(5), summary.Deleted)
	assert.Equal(t, int64(70), summary.ByGender["male"])
	assert.Equal(t, int64(80), summary.ByPurok["unassigned"])
	assert.Equal(t, int64(50), summary.AgeDistribution["18-21"])
	assert.False(t, summary.GeneratedAt.IsZero())
}
