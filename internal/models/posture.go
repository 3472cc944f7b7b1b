package models

import "time"

// MetricsSummary is the aggregate counter view supplied by the metrics
// collaborator.
type MetricsSummary struct {
	FailedLogins        int `json:"failed_logins"`
	AccountLockouts     int `json:"account_lockouts"`
	RateLimitViolations int `json:"rate_limit_violations"`
	ActiveSessions      int `json:"active_sessions"`
	TotalRequests       int `json:"total_requests"`
}

// ThreatStats is the aggregate view supplied by the threat intelligence
// collaborator.
type ThreatStats struct {
	CriticalThreats int `json:"critical_threats"`
	HighThreats     int `json:"high_threats"`
	MediumThreats   int `json:"medium_threats"`
	LowThreats      int `json:"low_threats"`
	TotalThreats    int `json:"total_threats"`
	BlockedIPs      int `json:"blocked_ips"`
}

// FactorStatus is the qualitative tier of a single posture factor:
//
//	score >= 90 → "excellent"
//	score >= 75 → "good"
//	score >= 60 → "fair"
//	otherwise   → "poor"
type FactorStatus string

const (
	FactorExcellent FactorStatus = "excellent"
	FactorGood      FactorStatus = "good"
	FactorFair      FactorStatus = "fair"
	FactorPoor      FactorStatus = "poor"
)

// PostureFactor is one weighted component of the overall posture score.
type PostureFactor struct {
	Score   int            `json:"score"`
	Status  FactorStatus   `json:"status"`
	Details map[string]any `json:"details"`
}

// PostureFactors groups the five scored dimensions.
type PostureFactors struct {
	Authentication     PostureFactor `json:"authentication"`
	ThreatIntelligence PostureFactor `json:"threat_intelligence"`
	RateLimiting       PostureFactor `json:"rate_limiting"`
	AuditLogging       PostureFactor `json:"audit_logging"`
	IncidentResponse   PostureFactor `json:"incident_response"`
}

// PostureSnapshot is the on-demand computed security posture. It is never
// persisted; LastUpdated is the computation time.
type PostureSnapshot struct {
	OverallScore    int            `json:"overall_score"` // 0-100
	Grade           string         `json:"grade"`         // A-F
	Factors         PostureFactors `json:"factors"`
	Recommendations []string       `json:"recommendations"`
	LastUpdated     time.Time      `json:"last_updated"`
}

// ComplianceControl is a named checkpoint belonging to an external
// compliance framework. Status values come from a framework-specific
// closed set.
type ComplianceControl struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Evidence []string `json:"evidence,omitempty"`
}

// NISTCompliance maps live signals onto NIST 800-53 controls.
type NISTCompliance struct {
	Score    int                 `json:"score"`
	Controls []ComplianceControl `json:"controls"`
}

// OWASPCompliance reports coverage of the OWASP API Security Top 10.
type OWASPCompliance struct {
	Score int                 `json:"score"`
	Risks []ComplianceControl `json:"risks"`
}

// PCICompliance reports coverage of PCI DSS requirements.
type PCICompliance struct {
	Score        int                 `json:"score"`
	Requirements []ComplianceControl `json:"requirements"`
}

// GDPRCompliance reports coverage of GDPR processing principles.
type GDPRCompliance struct {
	Score      int                 `json:"score"`
	Principles []ComplianceControl `json:"principles"`
}

// ComplianceMetrics groups the four framework blocks. It is computed on
// demand and never persisted.
type ComplianceMetrics struct {
	NIST  NISTCompliance  `json:"nist"`
	OWASP OWASPCompliance `json:"owasp"`
	PCI   PCICompliance   `json:"pci"`
	GDPR  GDPRCompliance  `json:"gdpr"`
}
