// Package posture computes the aggregate security posture score and maps it
// into compliance framework control statuses.
package posture

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

// MetricsClient supplies the aggregate request/auth/rate-limit counters.
type MetricsClient interface {
	Summary(ctx context.Context) (*models.MetricsSummary, error)
}

// ThreatClient supplies aggregate threat intelligence statistics.
type ThreatClient interface {
	Stats(ctx context.Context) (*models.ThreatStats, error)
}

// IncidentStats supplies the incident statistics factor input.
type IncidentStats interface {
	GetStatistics(ctx context.Context) (*models.IncidentStatistics, error)
}

// HTTPMetricsClient fetches the metrics summary from the metrics service.
type HTTPMetricsClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPMetricsClient creates a metrics client for the given base URL.
func NewHTTPMetricsClient(baseURL string) *HTTPMetricsClient {
	return &HTTPMetricsClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Summary fetches the aggregate counter summary.
func (c *HTTPMetricsClient) Summary(ctx context.Context) (*models.MetricsSummary, error) {
	var summary models.MetricsSummary
	if err := getJSON(ctx, c.http, c.baseURL+"/api/v1/metrics/summary", &summary); err != nil {
		return nil, fmt.Errorf("metrics summary: %w", err)
	}
	return &summary, nil
}

// HTTPThreatClient fetches threat statistics from the threat intelligence
// service.
type HTTPThreatClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPThreatClient creates a threat stats client for the given base URL.
func NewHTTPThreatClient(baseURL string) *HTTPThreatClient {
	return &HTTPThreatClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Stats fetches the aggregate threat statistics.
func (c *HTTPThreatClient) Stats(ctx context.Context) (*models.ThreatStats, error) {
	var stats models.ThreatStats
	if err := getJSON(ctx, c.http, c.baseURL+"/api/v1/threats/stats", &stats); err != nil {
		return nil, fmt.Errorf("threat stats: %w", err)
	}
	return &stats, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
