package posture

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/metrics"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

// Factor weights. They sum to 1.
const (
	weightAuthentication     = 0.25
	weightThreatIntelligence = 0.25
	weightRateLimiting       = 0.15
	weightAuditLogging       = 0.15
	weightIncidentResponse   = 0.20
)

// auditLoggingScore is fixed: audit coverage is assumed adequate in the
// absence of a dedicated coverage signal.
const auditLoggingScore = 90

// Service computes posture snapshots and compliance metrics from the live
// collaborator signals. All dependencies are injected at construction.
type Service struct {
	metrics   MetricsClient
	threats   ThreatClient
	incidents IncidentStats
}

// NewService creates a posture service over the given collaborators.
func NewService(metricsClient MetricsClient, threatClient ThreatClient, incidents IncidentStats) *Service {
	return &Service{
		metrics:   metricsClient,
		threats:   threatClient,
		incidents: incidents,
	}
}

// CalculatePosture gathers the collaborator summaries and computes the
// weighted overall score, per-factor breakdown, grade, and recommendations.
// If any collaborator fails, the whole computation fails; there is no
// partial or degraded result.
func (s *Service) CalculatePosture(ctx context.Context) (*models.PostureSnapshot, error) {
	summary, err := s.metrics.Summary(ctx)
	if err != nil {
		metrics.PostureComputations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to gather metrics summary: %w", err)
	}

	threats, err := s.threats.Stats(ctx)
	if err != nil {
		metrics.PostureComputations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to gather threat stats: %w", err)
	}

	incidentStats, err := s.incidents.GetStatistics(ctx)
	if err != nil {
		metrics.PostureComputations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to gather incident statistics: %w", err)
	}

	authScore := scoreAuthentication(summary)
	threatScore := scoreThreatIntelligence(threats)
	rateScore := scoreRateLimiting(summary)
	auditScore := auditLoggingScore
	incidentScore := scoreIncidentResponse(incidentStats)

	overall := int(math.Round(
		float64(authScore)*weightAuthentication +
			float64(threatScore)*weightThreatIntelligence +
			float64(rateScore)*weightRateLimiting +
			float64(auditScore)*weightAuditLogging +
			float64(incidentScore)*weightIncidentResponse))

	snapshot := &models.PostureSnapshot{
		OverallScore: overall,
		Grade:        Grade(overall),
		Factors: models.PostureFactors{
			Authentication: models.PostureFactor{
				Score:  authScore,
				Status: factorStatus(authScore),
				Details: map[string]any{
					"failed_logins":    summary.FailedLogins,
					"account_lockouts": summary.AccountLockouts,
					"active_sessions":  summary.ActiveSessions,
				},
			},
			ThreatIntelligence: models.PostureFactor{
				Score:  threatScore,
				Status: factorStatus(threatScore),
				Details: map[string]any{
					"critical_threats": threats.CriticalThreats,
					"high_threats":     threats.HighThreats,
					"total_threats":    threats.TotalThreats,
					"blocked_ips":      threats.BlockedIPs,
				},
			},
			RateLimiting: models.PostureFactor{
				Score:  rateScore,
				Status: factorStatus(rateScore),
				Details: map[string]any{
					"violations":     summary.RateLimitViolations,
					"total_requests": summary.TotalRequests,
				},
			},
			AuditLogging: models.PostureFactor{
				Score:  auditScore,
				Status: factorStatus(auditScore),
				Details: map[string]any{
					"coverage_assumed": true,
				},
			},
			IncidentResponse: models.PostureFactor{
				Score:  incidentScore,
				Status: factorStatus(incidentScore),
				Details: map[string]any{
					"open_incidents":           incidentStats.OpenIncidents,
					"resolved_incidents":       incidentStats.ResolvedIncidents,
					"average_response_time_ms": incidentStats.AverageResponseTime,
				},
			},
		},
		Recommendations: recommendations(summary, threats, incidentStats, authScore, auditScore),
		LastUpdated:     time.Now(),
	}

	metrics.PostureComputations.WithLabelValues("success").Inc()
	return snapshot, nil
}

// scoreAuthentication starts at 100 and deducts for login failures and
// account lockouts.
func scoreAuthentication(m *models.MetricsSummary) int {
	score := 100
	switch {
	case m.FailedLogins > 50:
		score -= 20
	case m.FailedLogins > 20:
		score -= 10
	case m.FailedLogins > 10:
		score -= 5
	}
	switch {
	case m.AccountLockouts > 5:
		score -= 15
	case m.AccountLockouts > 0:
		score -= 5
	}
	return clampScore(score)
}

// scoreThreatIntelligence deducts per active threat and grants a bonus of up
// to 10 points proportional to the blocked share of known threats.
func scoreThreatIntelligence(t *models.ThreatStats) int {
	score := 100
	score -= 10 * t.CriticalThreats
	score -= 5 * t.HighThreats

	total := t.TotalThreats
	if total < 1 {
		total = 1
	}
	ratio := float64(t.BlockedIPs) / float64(total)
	if ratio > 1 {
		ratio = 1
	}
	score += int(math.Round(10 * ratio))

	return clampScore(score)
}

func scoreRateLimiting(m *models.MetricsSummary) int {
	score := 100
	switch {
	case m.RateLimitViolations > 20:
		score -= 15
	case m.RateLimitViolations > 10:
		score -= 10
	case m.RateLimitViolations > 0:
		score -= 5
	}
	return clampScore(score)
}

func scoreIncidentResponse(stats *models.IncidentStatistics) int {
	score := 100
	switch {
	case stats.OpenIncidents > 10:
		score -= 20
	case stats.OpenIncidents > 5:
		score -= 10
	case stats.OpenIncidents > 0:
		score -= 5
	}
	switch {
	case stats.AverageResponseTime > 2*hourMillis:
		score -= 15
	case stats.AverageResponseTime > hourMillis:
		score -= 10
	}
	return clampScore(score)
}

const hourMillis = 60 * 60 * 1000

// recommendations re-reads the raw counters; it is independent of the
// numeric factor scores except where a rule names one explicitly.
func recommendations(m *models.MetricsSummary, t *models.ThreatStats, stats *models.IncidentStatistics, authScore, auditScore int) []string {
	recs := []string{}

	if authScore < 70 {
		recs = append(recs, "Enable multi-factor authentication to strengthen account security")
	}
	if m.FailedLogins > 20 {
		recs = append(recs, "Investigate elevated failed login volume and tighten lockout thresholds")
	}
	if t.CriticalThreats > 0 {
		recs = append(recs, fmt.Sprintf("Respond to %d active critical threats", t.CriticalThreats))
	}
	if float64(t.BlockedIPs) < 0.8*float64(t.TotalThreats) {
		recs = append(recs, "Block a larger share of known threat sources")
	}
	if m.RateLimitViolations > 10 {
		recs = append(recs, "Review rate limit policies; violation volume is elevated")
	}
	if auditScore < 80 {
		recs = append(recs, "Expand audit log coverage")
	}
	if stats.OpenIncidents > 5 {
		recs = append(recs, "Triage the open incident backlog")
	}
	if stats.AverageResponseTime > hourMillis {
		recs = append(recs, "Reduce incident response time; first assignment is taking over an hour")
	}

	return recs
}

// Grade maps an overall score to its letter grade:
//
//	>= 90 → A, >= 80 → B, >= 70 → C, >= 60 → D, else F
//
// The grade ladder is intentionally different from the factor status ladder.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// factorStatus maps a factor score to its qualitative tier (90/75/60 ladder).
func factorStatus(score int) models.FactorStatus {
	switch {
	case score >= 90:
		return models.FactorExcellent
	case score >= 75:
		return models.FactorGood
	case score >= 60:
		return models.FactorFair
	default:
		return models.FactorPoor
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
