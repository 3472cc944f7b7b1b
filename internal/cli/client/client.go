// Package client is the HTTP client for the security operations admin API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

// Client talks to the security operations admin API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a client for the given base URL. token is sent as a bearer
// token on every request.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(bodyBytes)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.client.Do(req)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListIncidents fetches incidents with the given filters.
func (c *Client) ListIncidents(status, severity, incType string, limit, offset int) ([]*models.Incident, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if severity != "" {
		q.Set("severity", severity)
	}
	if incType != "" {
		q.Set("type", incType)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	path := "/admin/incidents"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var incidents []*models.Incident
	if err := c.do(http.MethodGet, path, nil, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

// GetIncident fetches a single incident.
func (c *Client) GetIncident(id string) (*models.Incident, error) {
	var inc models.Incident
	if err := c.do(http.MethodGet, "/admin/incidents/"+id, nil, &inc); err != nil {
		return nil, err
	}
	return &inc, nil
}

// CreateIncident creates a new incident.
func (c *Client) CreateIncident(req *models.CreateIncidentRequest) (*models.Incident, error) {
	var inc models.Incident
	if err := c.do(http.MethodPost, "/admin/incidents", req, &inc); err != nil {
		return nil, err
	}
	return &inc, nil
}

// UpdateStatus transitions an incident to a new status.
func (c *Client) UpdateStatus(id, status string) (*models.Incident, error) {
	req := models.UpdateStatusRequest{Status: models.Status(status)}
	var inc models.Incident
	if err := c.do(http.MethodPatch, "/admin/incidents/"+id+"/status", req, &inc); err != nil {
		return nil, err
	}
	return &inc, nil
}

// Assign assigns an incident to a responder.
func (c *Client) Assign(id, assignee string) (*models.Incident, error) {
	req := models.AssignRequest{AssignedTo: assignee}
	var inc models.Incident
	if err := c.do(http.MethodPatch, "/admin/incidents/"+id+"/assign", req, &inc); err != nil {
		return nil, err
	}
	return &inc, nil
}

// AddNote appends a note to an incident.
func (c *Client) AddNote(id, content string) (*models.Incident, error) {
	req := models.AddNoteRequest{Content: content}
	var inc models.Incident
	if err := c.do(http.MethodPost, "/admin/incidents/"+id+"/notes", req, &inc); err != nil {
		return nil, err
	}
	return &inc, nil
}

// GetStatistics fetches incident statistics.
func (c *Client) GetStatistics() (*models.IncidentStatistics, error) {
	var stats models.IncidentStatistics
	if err := c.do(http.MethodGet, "/admin/incidents/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetPosture fetches the current security posture snapshot.
func (c *Client) GetPosture() (*models.PostureSnapshot, error) {
	var snapshot models.PostureSnapshot
	if err := c.do(http.MethodGet, "/admin/compliance/posture", nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetComplianceMetrics fetches the compliance framework breakdown.
func (c *Client) GetComplianceMetrics() (*models.ComplianceMetrics, error) {
	var compliance models.ComplianceMetrics
	if err := c.do(http.MethodGet, "/admin/compliance/metrics", nil, &compliance); err != nil {
		return nil, err
	}
	return &compliance, nil
}
