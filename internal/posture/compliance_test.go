package posture

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

func TestGetComplianceMetrics_NISTDerivedFromSignals(t *testing.T) {
	svc := NewService(
		&stubMetricsClient{summary: &models.MetricsSummary{
			FailedLogins:        12,
			AccountLockouts:     0,
			RateLimitViolations: 3,
		}},
		&stubThreatClient{stats: &models.ThreatStats{TotalThreats: 5, BlockedIPs: 2}},
		&stubIncidentStats{stats: &models.IncidentStatistics{}},
	)

	compliance, err := svc.GetComplianceMetrics(context.Background())
	require.NoError(t, err)

	require.Len(t, compliance.NIST.Controls, 4)
	byID := map[string]models.ComplianceControl{}
	for _, c := range compliance.NIST.Controls {
		byID[c.ID] = c
	}

	assert.Equal(t, "non_compliant", byID["AC-2"].Status)
	assert.Empty(t, byID["AC-2"].Evidence)

	assert.Equal(t, "compliant", byID["AC-7"].Status)
	require.Len(t, byID["AC-7"].Evidence, 1)
	assert.Contains(t, byID["AC-7"].Evidence[0], "12 failed logins")

	assert.Equal(t, "compliant", byID["SI-4"].Status)
	assert.Equal(t, "compliant", byID["SC-5"].Status)

	// 3 of 4 controls compliant.
	assert.Equal(t, 75, compliance.NIST.Score)
}

func TestGetComplianceMetrics_StaticCatalogs(t *testing.T) {
	compliance, err := quietService().GetComplianceMetrics(context.Background())
	require.NoError(t, err)

	// The OWASP, PCI, and GDPR blocks never vary with the live signals.
	assert.Equal(t, 80, compliance.OWASP.Score)
	assert.Len(t, compliance.OWASP.Risks, 10)

	assert.Equal(t, 75, compliance.PCI.Score)
	assert.Len(t, compliance.PCI.Requirements, 8)

	assert.Equal(t, 71, compliance.GDPR.Score)
	assert.Len(t, compliance.GDPR.Principles, 7)
}

func TestGetComplianceMetrics_QuietSystemNIST(t *testing.T) {
	compliance, err := quietService().GetComplianceMetrics(context.Background())
	require.NoError(t, err)

	// With no observed signals every NIST control is non-compliant.
	assert.Equal(t, 0, compliance.NIST.Score)
	for _, c := range compliance.NIST.Controls {
		assert.Equal(t, "non_compliant", c.Status)
	}
}

func TestGetComplianceMetrics_CollaboratorFailure(t *testing.T) {
	boom := errors.New("timeout")
	svc := NewService(
		&stubMetricsClient{err: boom},
		&stubThreatClient{stats: &models.ThreatStats{}},
		&stubIncidentStats{stats: &models.IncidentStatistics{}},
	)

	compliance, err := svc.GetComplianceMetrics(context.Background())
	assert.Nil(t, compliance)
	assert.ErrorIs(t, err, boom)
}

func TestHTTPClients(t *testing.T) {
	t.Run("metrics summary", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/metrics/summary", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"failed_logins": 7, "rate_limit_violations": 2}`))
		}))
		defer srv.Close()

		summary, err := NewHTTPMetricsClient(srv.URL).Summary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, summary.FailedLogins)
		assert.Equal(t, 2, summary.RateLimitViolations)
	})

	t.Run("threat stats", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/threats/stats", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"critical_threats": 1, "blocked_ips": 4}`))
		}))
		defer srv.Close()

		stats, err := NewHTTPThreatClient(srv.URL).Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.CriticalThreats)
		assert.Equal(t, 4, stats.BlockedIPs)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewHTTPMetricsClient(srv.URL).Summary(context.Background())
		assert.Error(t, err)
	})
}
