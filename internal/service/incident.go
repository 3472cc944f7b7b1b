// Package service implements the incident lifecycle: creation, status
// transitions, assignment, annotation, and aggregate statistics.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/logging"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/metrics"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/repository"
)

// Validation errors returned for unknown enum values.
var (
	ErrInvalidSeverity = fmt.Errorf("invalid severity")
	ErrInvalidStatus   = fmt.Errorf("invalid status")
	ErrInvalidType     = fmt.Errorf("invalid incident type")
)

// Publisher emits incident lifecycle events. Publishing is best-effort:
// failures are logged and never returned to the caller.
type Publisher interface {
	IncidentCreated(ctx context.Context, inc *models.Incident) error
	IncidentUpdated(ctx context.Context, inc *models.Incident) error
}

// Service handles business logic for incidents. All mutations are
// read-modify-write against the repository at whole-record granularity.
type Service struct {
	repo   repository.Repository
	pub    Publisher
	logger *logging.Logger
	now    func() time.Time
}

// NewService creates a new incident service. pub may be nil when event
// publishing is disabled.
func NewService(repo repository.Repository, pub Publisher, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		pub:    pub,
		logger: logger,
		now:    time.Now,
	}
}

// CreateIncident builds a new incident in status open and persists it.
// Duplicate titles are allowed.
func (s *Service) CreateIncident(ctx context.Context, req *models.CreateIncidentRequest, reportedBy string) (*models.Incident, error) {
	if !isValidType(req.Type) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, req.Type)
	}
	if !isValidSeverity(req.Severity) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeverity, req.Severity)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate incident id: %w", err)
	}

	now := s.now()
	inc := &models.Incident{
		ID:            id.String(),
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Severity:      req.Severity,
		Status:        models.StatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
		ReportedBy:    reportedBy,
		AffectedIPs:   req.AffectedIPs,
		AffectedUsers: req.AffectedUsers,
		Notes:         []models.Note{},
		Tags:          req.Tags,
		Metadata:      req.Metadata,
	}
	if inc.Tags == nil {
		inc.Tags = []string{}
	}

	if err := s.repo.Create(ctx, inc); err != nil {
		return nil, err
	}

	metrics.IncidentsCreated.WithLabelValues("manual", string(inc.Severity)).Inc()
	s.publishCreated(ctx, inc)
	return inc, nil
}

// GetIncident retrieves an incident by id.
func (s *Service) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	return s.repo.Get(ctx, id)
}

// ListIncidents retrieves incidents in descending creation order.
func (s *Service) ListIncidents(ctx context.Context, req *models.ListIncidentsRequest) ([]*models.Incident, error) {
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 50
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return s.repo.List(ctx, req)
}

// UpdateStatus transitions an incident to newStatus. Any status may follow
// any other. Entering resolved or closed stamps ResolvedAt and recomputes
// ResolutionTime, including when a terminal state is re-entered; leaving a
// terminal state clears both.
func (s *Service) UpdateStatus(ctx context.Context, id string, newStatus models.Status, actor string) (*models.Incident, error) {
	if !isValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}

	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inc.Status = newStatus
	if newStatus.IsTerminal() {
		resolvedAt := now
		resolution := now.Sub(inc.CreatedAt).Milliseconds()
		inc.ResolvedAt = &resolvedAt
		inc.ResolutionTime = &resolution
	} else {
		inc.ResolvedAt = nil
		inc.ResolutionTime = nil
	}

	s.appendNote(inc, actor, fmt.Sprintf("Status changed to %s", newStatus), now)

	if err := s.repo.Update(ctx, inc); err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(newStatus)).Inc()
	s.publishUpdated(ctx, inc)
	return inc, nil
}

// Assign sets the incident's assignee. The first assignment of a still-open
// incident stamps ResponseTime; once set it is never overwritten, no matter
// how many reassignments follow.
func (s *Service) Assign(ctx context.Context, id, assignee, actor string) (*models.Incident, error) {
	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inc.AssignedTo = &assignee
	if inc.ResponseTime == nil && inc.Status == models.StatusOpen {
		response := now.Sub(inc.CreatedAt).Milliseconds()
		inc.ResponseTime = &response
	}

	s.appendNote(inc, actor, fmt.Sprintf("Assigned to %s", assignee), now)

	if err := s.repo.Update(ctx, inc); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, inc)
	return inc, nil
}

// AddNote appends a free-text note. It has no status side effect.
func (s *Service) AddNote(ctx context.Context, id, author, content string) (*models.Incident, error) {
	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.appendNote(inc, author, content, s.now())

	if err := s.repo.Update(ctx, inc); err != nil {
		return nil, err
	}
	return inc, nil
}

// UpdateFields applies a partial update to the incident's mutable fields.
func (s *Service) UpdateFields(ctx context.Context, id string, req *models.UpdateIncidentRequest, actor string) (*models.Incident, error) {
	if req.Severity != nil && !isValidSeverity(*req.Severity) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeverity, *req.Severity)
	}

	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		inc.Title = *req.Title
	}
	if req.Description != nil {
		inc.Description = *req.Description
	}
	if req.Severity != nil {
		inc.Severity = *req.Severity
	}
	if req.Tags != nil {
		inc.Tags = *req.Tags
	}
	if req.AffectedIPs != nil {
		inc.AffectedIPs = *req.AffectedIPs
	}
	if req.AffectedUsers != nil {
		inc.AffectedUsers = *req.AffectedUsers
	}

	s.appendNote(inc, actor, "Incident details updated", s.now())

	if err := s.repo.Update(ctx, inc); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, inc)
	return inc, nil
}

// CreateFromThreatSignal creates an incident from a qualifying threat
// summary. Signals below high threat level are ignored and return nil.
// No deduplication is performed: repeated qualifying signals from the same
// source produce repeated incidents.
func (s *Service) CreateFromThreatSignal(ctx context.Context, ts *models.ThreatSummary, reportedBy string) (*models.Incident, error) {
	if ts.ThreatLevel != "high" && ts.ThreatLevel != "critical" {
		return nil, nil
	}
	if reportedBy == "" {
		reportedBy = "system"
	}

	incType := classifyThreat(ts)

	severity := models.SeverityHigh
	if ts.ThreatLevel == "critical" {
		severity = models.SeverityCritical
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate incident id: %w", err)
	}

	now := s.now()
	inc := &models.Incident{
		ID:          id.String(),
		Title:       fmt.Sprintf("Automated detection: %s from %s", incType, ts.SourceIP),
		Description: fmt.Sprintf("Threat level %s detected from %s: %d failed logins, %d rate limit violations, %d account lockouts", ts.ThreatLevel, ts.SourceIP, ts.FailedLogins, ts.RateLimitViolations, ts.AccountLockouts),
		Type:        incType,
		Severity:    severity,
		Status:      models.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
		ReportedBy:  reportedBy,
		AffectedIPs: []string{ts.SourceIP},
		Notes:       []models.Note{},
		Tags:        []string{"auto-generated", "threat-intelligence"},
	}

	if err := s.repo.Create(ctx, inc); err != nil {
		return nil, err
	}

	metrics.IncidentsCreated.WithLabelValues("threat-signal", string(inc.Severity)).Inc()
	s.publishCreated(ctx, inc)
	return inc, nil
}

// classifyThreat picks the incident type from the signal's counters. The
// checks are ordered: failed logins dominate, then rate limit violations,
// then lockouts.
func classifyThreat(ts *models.ThreatSummary) models.IncidentType {
	switch {
	case ts.FailedLogins > 10:
		return models.TypeBruteForce
	case ts.RateLimitViolations > 5:
		return models.TypeRateLimitAbuse
	case ts.AccountLockouts > 0:
		return models.TypeAccountLockout
	default:
		return models.TypeSuspiciousActivity
	}
}

// appendNote adds a timeline entry and bumps UpdatedAt.
func (s *Service) appendNote(inc *models.Incident, author, content string, now time.Time) {
	inc.Notes = append(inc.Notes, models.Note{
		Timestamp: now,
		Author:    author,
		Content:   content,
	})
	inc.UpdatedAt = now
}

func (s *Service) publishCreated(ctx context.Context, inc *models.Incident) {
	if s.pub == nil {
		return
	}
	if err := s.pub.IncidentCreated(ctx, inc); err != nil {
		s.logger.WarnContext(ctx, "failed to publish incident created event", "incident_id", inc.ID, "error", err)
	}
}

func (s *Service) publishUpdated(ctx context.Context, inc *models.Incident) {
	if s.pub == nil {
		return
	}
	if err := s.pub.IncidentUpdated(ctx, inc); err != nil {
		s.logger.WarnContext(ctx, "failed to publish incident updated event", "incident_id", inc.ID, "error", err)
	}
}

func isValidSeverity(severity models.Severity) bool {
	switch severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
		return true
	}
	return false
}

func isValidStatus(status models.Status) bool {
	switch status {
	case models.StatusOpen, models.StatusInvestigating, models.StatusContained, models.StatusResolved, models.StatusClosed:
		return true
	}
	return false
}

func isValidType(t models.IncidentType) bool {
	switch t {
	case models.TypeBruteForce, models.TypeCredentialStuffing, models.TypeRateLimitAbuse,
		models.TypeAccountLockout, models.TypeSuspiciousActivity, models.TypeDataBreach,
		models.TypeDDoS, models.TypeMalware, models.TypeUnauthorizedAccess, models.TypeOther:
		return true
	}
	return false
}
