package service

import (
	"context"
	"sort"
	"time"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

// statsScanLimit caps how many of the most recent incidents a single
// statistics computation scans.
const statsScanLimit = 10000

// trendDays is the length of the recent-trends window.
const trendDays = 7

// GetStatistics scans the most recent incidents and computes aggregate
// counts, averages, and a trailing 7-day trend. Averages cover only the
// incidents that have the respective timing field set; contained incidents
// count toward neither open nor resolved.
func (s *Service) GetStatistics(ctx context.Context) (*models.IncidentStatistics, error) {
	incidents, err := s.repo.ListRecent(ctx, statsScanLimit)
	if err != nil {
		return nil, err
	}

	stats := &models.IncidentStatistics{
		BySeverity:   make(map[models.Severity]int),
		ByType:       make(map[models.IncidentType]int),
		ByStatus:     make(map[models.Status]int),
		RecentTrends: []models.DailyTrend{},
	}

	var (
		responseSum     int64
		responseCount   int
		resolutionSum   int64
		resolutionCount int
	)

	now := s.now()
	opened, resolved := make(map[string]int), make(map[string]int)
	windowStart := now.AddDate(0, 0, -(trendDays - 1)).Truncate(24 * time.Hour)

	for _, inc := range incidents {
		stats.TotalIncidents++
		stats.BySeverity[inc.Severity]++
		stats.ByType[inc.Type]++
		stats.ByStatus[inc.Status]++

		switch inc.Status {
		case models.StatusOpen, models.StatusInvestigating:
			stats.OpenIncidents++
		case models.StatusResolved, models.StatusClosed:
			stats.ResolvedIncidents++
		}

		if inc.ResponseTime != nil {
			responseSum += *inc.ResponseTime
			responseCount++
		}
		if inc.ResolutionTime != nil {
			resolutionSum += *inc.ResolutionTime
			resolutionCount++
		}

		if !inc.CreatedAt.Before(windowStart) && !inc.CreatedAt.After(now) {
			opened[inc.CreatedAt.Format("2006-01-02")]++
		}
		if inc.ResolvedAt != nil && !inc.ResolvedAt.Before(windowStart) && !inc.ResolvedAt.After(now) {
			resolved[inc.ResolvedAt.Format("2006-01-02")]++
		}
	}

	if responseCount > 0 {
		stats.AverageResponseTime = float64(responseSum) / float64(responseCount)
	}
	if resolutionCount > 0 {
		stats.AverageResolutionTime = float64(resolutionSum) / float64(resolutionCount)
	}

	dates := make(map[string]struct{})
	for d := range opened {
		dates[d] = struct{}{}
	}
	for d := range resolved {
		dates[d] = struct{}{}
	}
	for d := range dates {
		stats.RecentTrends = append(stats.RecentTrends, models.DailyTrend{
			Date:     d,
			Opened:   opened[d],
			Resolved: resolved[d],
		})
	}
	sort.Slice(stats.RecentTrends, func(i, j int) bool {
		return stats.RecentTrends[i].Date < stats.RecentTrends[j].Date
	})

	return stats, nil
}
