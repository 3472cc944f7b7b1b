package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

func ptrInt64(v int64) *int64 { return &v }

func TestGetStatistics_Empty(t *testing.T) {
	repo := &mockRepository{
		listRecentFunc: func(ctx context.Context, n int) ([]*models.Incident, error) {
			return []*models.Incident{}, nil
		},
	}
	svc := newTestService(repo)

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalIncidents)
	assert.Equal(t, 0, stats.OpenIncidents)
	assert.Equal(t, 0, stats.ResolvedIncidents)
	assert.Zero(t, stats.AverageResponseTime)
	assert.Zero(t, stats.AverageResolutionTime)
	assert.Empty(t, stats.RecentTrends)
	assert.NotNil(t, stats.BySeverity)
}

func TestGetStatistics_Counts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	incidents := []*models.Incident{
		{Status: models.StatusOpen, Severity: models.SeverityHigh, Type: models.TypeBruteForce, CreatedAt: now.Add(-time.Hour)},
		{Status: models.StatusInvestigating, Severity: models.SeverityLow, Type: models.TypeOther, CreatedAt: now.Add(-2 * time.Hour)},
		{Status: models.StatusContained, Severity: models.SeverityHigh, Type: models.TypeBruteForce, CreatedAt: now.Add(-3 * time.Hour)},
		{Status: models.StatusResolved, Severity: models.SeverityMedium, Type: models.TypeRateLimitAbuse, CreatedAt: now.Add(-4 * time.Hour)},
		{Status: models.StatusClosed, Severity: models.SeverityHigh, Type: models.TypeBruteForce, CreatedAt: now.Add(-5 * time.Hour)},
	}
	repo := &mockRepository{
		listRecentFunc: func(ctx context.Context, n int) ([]*models.Incident, error) {
			return incidents, nil
		},
	}
	svc := newTestService(repo)
	svc.now = func() time.Time { return now }

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalIncidents)
	assert.Equal(t, 2, stats.OpenIncidents)
	assert.Equal(t, 2, stats.ResolvedIncidents)

	// Contained is counted in neither bucket but still in the breakdown.
	assert.Equal(t, 1, stats.ByStatus[models.StatusContained])
	assert.Equal(t, 3, stats.BySeverity[models.SeverityHigh])
	assert.Equal(t, 3, stats.ByType[models.TypeBruteForce])
}

func TestGetStatistics_Averages(t *testing.T) {
	repo := &mockRepository{
		listRecentFunc: func(ctx context.Context, n int) ([]*models.Incident, error) {
			return []*models.Incident{
				{Status: models.StatusOpen, ResponseTime: ptrInt64(1000)},
				{Status: models.StatusOpen, ResponseTime: ptrInt64(3000)},
				{Status: models.StatusOpen},
				{Status: models.StatusResolved, ResolutionTime: ptrInt64(60000)},
			}, nil
		},
	}
	svc := newTestService(repo)

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)

	// Averages only cover incidents that carry the timing field.
	assert.Equal(t, 2000.0, stats.AverageResponseTime)
	assert.Equal(t, 60000.0, stats.AverageResolutionTime)
}

func TestGetStatistics_RecentTrends(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -10)
	resolvedYesterday := yesterday.Add(time.Hour)

	repo := &mockRepository{
		listRecentFunc: func(ctx context.Context, n int) ([]*models.Incident, error) {
			return []*models.Incident{
				{Status: models.StatusOpen, CreatedAt: now},
				{Status: models.StatusOpen, CreatedAt: yesterday},
				{Status: models.StatusResolved, CreatedAt: yesterday, ResolvedAt: &resolvedYesterday},
				// Outside the 7-day window: excluded from trends, still counted.
				{Status: models.StatusOpen, CreatedAt: lastWeek},
			}, nil
		},
	}
	svc := newTestService(repo)
	svc.now = func() time.Time { return now }

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalIncidents)
	require.Len(t, stats.RecentTrends, 2)

	// Ascending by date.
	assert.Equal(t, "2026-03-09", stats.RecentTrends[0].Date)
	assert.Equal(t, 2, stats.RecentTrends[0].Opened)
	assert.Equal(t, 1, stats.RecentTrends[0].Resolved)

	assert.Equal(t, "2026-03-10", stats.RecentTrends[1].Date)
	assert.Equal(t, 1, stats.RecentTrends[1].Opened)
	assert.Equal(t, 0, stats.RecentTrends[1].Resolved)
}
