// Package models defines the core entities and request/response types for
// the security operations service.
package models

import "time"

// IncidentType classifies what kind of security event an incident tracks.
type IncidentType string

const (
	TypeBruteForce         IncidentType = "brute_force"
	TypeCredentialStuffing IncidentType = "credential_stuffing"
	TypeRateLimitAbuse     IncidentType = "rate_limit_abuse"
	TypeAccountLockout     IncidentType = "account_lockout"
	TypeSuspiciousActivity IncidentType = "suspicious_activity"
	TypeDataBreach         IncidentType = "data_breach"
	TypeDDoS               IncidentType = "ddos"
	TypeMalware            IncidentType = "malware"
	TypeUnauthorizedAccess IncidentType = "unauthorized_access"
	TypeOther              IncidentType = "other"
)

// Severity indicates how dangerous an incident is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Status is the lifecycle state of an incident. Any status may transition to
// any other status.
type Status string

const (
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusContained     Status = "contained"
	StatusResolved      Status = "resolved"
	StatusClosed        Status = "closed"
)

// IsTerminal reports whether the status marks an incident as finished.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// Note is a single immutable entry in an incident's timeline.
type Note struct {
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
}

// Incident is a tracked security event with a lifecycle status, severity,
// and an append-only timeline of notes.
type Incident struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Type          IncidentType   `json:"type"`
	Severity      Severity       `json:"severity"`
	Status        Status         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	ResolvedAt    *time.Time     `json:"resolved_at,omitempty"`
	ReportedBy    string         `json:"reported_by"`
	AssignedTo    *string        `json:"assigned_to,omitempty"`
	AffectedIPs   []string       `json:"affected_ips,omitempty"`
	AffectedUsers []string       `json:"affected_users,omitempty"`
	// ResponseTime is the elapsed time in milliseconds from creation to the
	// first assignment. Once set it is never overwritten.
	ResponseTime *int64 `json:"response_time_ms,omitempty"`
	// ResolutionTime is the elapsed time in milliseconds from creation to the
	// most recent transition into a terminal status.
	ResolutionTime *int64         `json:"resolution_time_ms,omitempty"`
	Notes          []Note         `json:"notes"`
	Tags           []string       `json:"tags"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// CreateIncidentRequest is the payload for creating a new incident.
type CreateIncidentRequest struct {
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Type          IncidentType   `json:"type"`
	Severity      Severity       `json:"severity"`
	AffectedIPs   []string       `json:"affected_ips,omitempty"`
	AffectedUsers []string       `json:"affected_users,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// UpdateStatusRequest is the payload for a status transition.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// AssignRequest is the payload for assigning an incident to a responder.
type AssignRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// AddNoteRequest is the payload for appending a free-text note.
type AddNoteRequest struct {
	Content string `json:"content"`
}

// UpdateIncidentRequest carries a partial update; only non-nil fields are
// applied.
type UpdateIncidentRequest struct {
	Title         *string   `json:"title,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Severity      *Severity `json:"severity,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	AffectedIPs   *[]string `json:"affected_ips,omitempty"`
	AffectedUsers *[]string `json:"affected_users,omitempty"`
}

// ListIncidentsRequest holds the query parameters for listing incidents.
// Empty filter fields match everything.
type ListIncidentsRequest struct {
	Status   string
	Severity string
	Type     string
	Limit    int
	Offset   int
}

// ThreatSummary is the output contract of the threat intelligence component
// for a single source address.
type ThreatSummary struct {
	SourceIP            string `json:"source_ip"`
	ThreatLevel         string `json:"threat_level"` // low, medium, high, critical
	FailedLogins        int    `json:"failed_logins"`
	RateLimitViolations int    `json:"rate_limit_violations"`
	AccountLockouts     int    `json:"account_lockouts"`
	SuspiciousRequests  int    `json:"suspicious_requests,omitempty"`
}

// DailyTrend is a per-calendar-date bucket of incident activity.
type DailyTrend struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Opened   int    `json:"opened"`
	Resolved int    `json:"resolved"`
}

// IncidentStatistics is an aggregate view over the most recent incidents.
// TotalIncidents is not guaranteed to equal OpenIncidents+ResolvedIncidents:
// contained incidents count toward neither.
type IncidentStatistics struct {
	TotalIncidents    int `json:"total_incidents"`
	OpenIncidents     int `json:"open_incidents"`
	ResolvedIncidents int `json:"resolved_incidents"`
	// Averages are in milliseconds, over only the incidents that have the
	// respective field set; 0 when none do.
	AverageResponseTime   float64              `json:"average_response_time_ms"`
	AverageResolutionTime float64              `json:"average_resolution_time_ms"`
	BySeverity            map[Severity]int     `json:"by_severity"`
	ByType                map[IncidentType]int `json:"by_type"`
	ByStatus              map[Status]int       `json:"by_status"`
	RecentTrends          []DailyTrend         `json:"recent_trends"`
}
