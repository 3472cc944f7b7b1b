package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/logging"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/repository"
)

// mockRepository is a func-field mock of repository.Repository.
type mockRepository struct {
	createFunc     func(ctx context.Context, inc *models.Incident) error
	getFunc        func(ctx context.Context, id string) (*models.Incident, error)
	listFunc       func(ctx context.Context, req *models.ListIncidentsRequest) ([]*models.Incident, error)
	updateFunc     func(ctx context.Context, inc *models.Incident) error
	listRecentFunc func(ctx context.Context, n int) ([]*models.Incident, error)
}

func (m *mockRepository) Create(ctx context.Context, inc *models.Incident) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, inc)
	}
	return nil
}

func (m *mockRepository) Get(ctx context.Context, id string) (*models.Incident, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, repository.ErrIncidentNotFound
}

func (m *mockRepository) List(ctx context.Context, req *models.ListIncidentsRequest) ([]*models.Incident, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockRepository) Update(ctx context.Context, inc *models.Incident) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, inc)
	}
	return nil
}

func (m *mockRepository) ListRecent(ctx context.Context, n int) ([]*models.Incident, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, n)
	}
	return nil, nil
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }

func (m *mockRepository) Close() error { return nil }

func newTestService(repo repository.Repository) *Service {
	return NewService(repo, nil, logging.Default())
}

func TestCreateIncident(t *testing.T) {
	var stored *models.Incident
	repo := &mockRepository{
		createFunc: func(ctx context.Context, inc *models.Incident) error {
			stored = inc
			return nil
		},
	}
	svc := newTestService(repo)

	inc, err := svc.CreateIncident(context.Background(), &models.CreateIncidentRequest{
		Title:    "Repeated 401s from single source",
		Type:     models.TypeBruteForce,
		Severity: models.SeverityHigh,
	}, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEmpty(t, inc.ID)
	assert.Equal(t, models.StatusOpen, inc.Status)
	assert.Equal(t, "alice", inc.ReportedBy)
	assert.NotNil(t, inc.Notes)
	assert.Empty(t, inc.Notes)
	assert.NotNil(t, inc.Tags)
	assert.Nil(t, inc.ResolvedAt)
	assert.Nil(t, inc.ResponseTime)
	assert.Equal(t, inc.CreatedAt, inc.UpdatedAt)
}

func TestCreateIncident_Validation(t *testing.T) {
	svc := newTestService(&mockRepository{})

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.CreateIncident(context.Background(), &models.CreateIncidentRequest{
			Title:    "x",
			Type:     "volcano",
			Severity: models.SeverityLow,
		}, "alice")
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("unknown severity", func(t *testing.T) {
		_, err := svc.CreateIncident(context.Background(), &models.CreateIncidentRequest{
			Title:    "x",
			Type:     models.TypeOther,
			Severity: "catastrophic",
		}, "alice")
		assert.ErrorIs(t, err, ErrInvalidSeverity)
	})
}

func TestUpdateStatus_Resolve(t *testing.T) {
	created := time.Now().Add(-30 * time.Minute)
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*models.Incident, error) {
			return &models.Incident{
				ID:        id,
				Status:    models.StatusInvestigating,
				CreatedAt: created,
				Notes:     []models.Note{},
			}, nil
		},
	}
	svc := newTestService(repo)

	inc, err := svc.UpdateStatus(context.Background(), "inc-1", models.StatusResolved, "bob")
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, inc.Status)
	require.NotNil(t, inc.ResolvedAt)
	require.NotNil(t, inc.ResolutionTime)
	assert.InDelta(t, 30*time.Minute.Milliseconds(), *inc.ResolutionTime, float64(5*time.Second.Milliseconds()))

	require.Len(t, inc.Notes, 1)
	assert.Equal(t, "bob", inc.Notes[0].Author)
	assert.Equal(t, "Status changed to resolved", inc.Notes[0].Content)
}

func TestUpdateStatus_TerminalReentryRecomputes(t *testing.T) {
	created := time.Now().Add(-2 * time.Hour)
	earlier := created.Add(time.Hour)
	prevResolution := time.Hour.Milliseconds()
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*models.Incident, error) {
			return &models.Incident{
				ID:             id,
				Status:         models.StatusResolved,
				CreatedAt:      created,
				ResolvedAt:     &earlier,
				ResolutionTime: &prevResolution,
				Notes:          []models.Note{},
			}, nil
		},
	}
	svc := newTestService(repo)

	inc, err := svc.UpdateStatus(context.Background(), "inc-1", models.StatusClosed, "bob")
	require.NoError(t, err)

	// Re-entering a terminal state restamps the resolution fields from now.
	require.NotNil(t, inc.ResolutionTime)
	assert.Greater(t, *inc.ResolutionTime, prevResolution)
	assert.True(t, inc.ResolvedAt.After(earlier))
}

func TestUpdateStatus_ReopenClearsResolution(t *testing.T) {
	created := time.Now().Add(-2 * time.Hour)
	resolvedAt := created.Add(time.Hour)
	resolution := time.Hour.Milliseconds()
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*models.Incident, error) {
			return &models.Incident{
				ID:             id,
				Status:         models.StatusResolved,
				CreatedAt:      created,
				ResolvedAt:     &resolvedAt,
				ResolutionTime: &resolution,
				Notes:          []models.Note{},
			}, nil
		},
	}
	svc := newTestService(repo)

	inc, err := svc.UpdateStatus(context.Background(), "inc-1", models.StatusInvestigating, "bob")
	require.NoError(t, err)

	assert.Nil(t, inc.ResolvedAt)
	assert.Nil(t, inc.ResolutionTime)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc := newTestService(&mockRepository{})

	_, err := svc.UpdateStatus(context.Background(), "inc-1", "archived", "bob")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAssign_FirstAssignmentStampsResponseTime(t *testing.T) {
	created := time.Now().Add(-10 * time.Minute)
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*models.Incident, error) {
			return &models.Incident{
				ID:        id,
				Status:    models.StatusOpen,
				CreatedAt: created,
				Notes:     []models.Note{},
			}, nil
		},
	}
	svc := newTestService(repo)

	inc, err := svc.Assign(context.Background(), "inc-1", "carol", "bob")
	require.NoError(t, err)

	require.NotNil(t, inc.AssignedTo)
	assert.Equal(t, "carol", *inc.AssignedTo)
	require.NotNil(t, inc.ResponseTime)
	assert.InDelta(t, 10*time.Minute.Milliseconds(), *inc.ResponseTime, float64(5*time.Second.Milliseconds()))

	require.Len(t, inc.Notes, 1)
	assert.Equal(t, "Assigned to carol", inc.Notes[0].Content)
}

func TestAssign_ReassignmentKeepsResponseTime(t *testing.T) {
	original := int64(42000)
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*models.Incident, error) {
			return &models.Incident{
				ID:           id,
				Status:       models.StatusInvestigating,
				CreatedAt:    time.Now().Add(-time.Hour),
				ResponseTime: &original,
				Notes:        []models.Note{},
			}, nil
		},
	}
	svc := newTestService(repo)

	inc, err := svc.Assign(context.Background(), "inc-1", "dave", "bob")
	require.NoError(t, err)

	require.NotNil(t, inc.ResponseTime)
	assert.Equal(t, original, *inc.ResponseTime)
}

func TestAssign_NonOpenWithoutResponseTime(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*models.Incident, error) {
			return &models.Incident{
				ID:        id,
				Status:    models.StatusInvestigating,
				CreatedAt: time.Now().Add(-time.Hour),
				Notes:     []models.Note{},
			}, nil
		},
	}
	svc := newTestService(repo)

	inc, err := svc.Assign(context.Background(), "inc-1", "carol", "bob")
	require.NoError(t, err)

	// ResponseTime is only stamped on the first assignment of an incident
	// that is still open.
	assert.Nil(t, inc.ResponseTime)
}

func TestAddNote(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*models.Incident, error) {
			return &models.Incident{
				ID:        id,
				Status:    models.StatusOpen,
				CreatedAt: time.Now(),
				Notes:     []models.Note{},
			}, nil
		},
	}
	svc := newTestService(repo)

	inc, err := svc.AddNote(context.Background(), "inc-1", "alice", "checked gateway logs")
	require.NoError(t, err)

	require.Len(t, inc.Notes, 1)
	assert.Equal(t, "alice", inc.Notes[0].Author)
	assert.Equal(t, "checked gateway logs", inc.Notes[0].Content)
	assert.Equal(t, models.StatusOpen, inc.Status)
}

func TestUpdateFields_PartialApply(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*models.Incident, error) {
			return &models.Incident{
				ID:          id,
				Title:       "old title",
				Description: "old description",
				Severity:    models.SeverityLow,
				Status:      models.StatusOpen,
				CreatedAt:   time.Now(),
				Notes:       []models.Note{},
				Tags:        []string{"keep"},
			}, nil
		},
	}
	svc := newTestService(repo)

	newTitle := "new title"
	newSeverity := models.SeverityCritical
	inc, err := svc.UpdateFields(context.Background(), "inc-1", &models.UpdateIncidentRequest{
		Title:    &newTitle,
		Severity: &newSeverity,
	}, "alice")
	require.NoError(t, err)

	assert.Equal(t, "new title", inc.Title)
	assert.Equal(t, models.SeverityCritical, inc.Severity)
	assert.Equal(t, "old description", inc.Description)
	assert.Equal(t, []string{"keep"}, inc.Tags)

	require.Len(t, inc.Notes, 1)
	assert.Equal(t, "Incident details updated", inc.Notes[0].Content)
}

func TestGetIncident_NotFound(t *testing.T) {
	svc := newTestService(&mockRepository{})

	_, err := svc.GetIncident(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrIncidentNotFound)
}

func TestListIncidents_LimitClamping(t *testing.T) {
	var seen *models.ListIncidentsRequest
	repo := &mockRepository{
		listFunc: func(ctx context.Context, req *models.ListIncidentsRequest) ([]*models.Incident, error) {
			seen = req
			return []*models.Incident{}, nil
		},
	}
	svc := newTestService(repo)

	tests := []struct {
		name      string
		limit     int
		offset    int
		wantLimit int
	}{
		{"zero limit defaults", 0, 0, 50},
		{"over maximum defaults", 500, 0, 50},
		{"negative offset reset", 10, -3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListIncidents(context.Background(), &models.ListIncidentsRequest{Limit: tt.limit, Offset: tt.offset})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, seen.Limit)
			assert.GreaterOrEqual(t, seen.Offset, 0)
		})
	}
}

func TestCreateFromThreatSignal(t *testing.T) {
	tests := []struct {
		name         string
		signal       models.ThreatSummary
		wantIncident bool
		wantType     models.IncidentType
		wantSeverity models.Severity
	}{
		{
			name:         "low level ignored",
			signal:       models.ThreatSummary{SourceIP: "10.0.0.1", ThreatLevel: "low", FailedLogins: 100},
			wantIncident: false,
		},
		{
			name:         "medium level ignored",
			signal:       models.ThreatSummary{SourceIP: "10.0.0.1", ThreatLevel: "medium", FailedLogins: 100},
			wantIncident: false,
		},
		{
			name:         "high brute force",
			signal:       models.ThreatSummary{SourceIP: "10.0.0.2", ThreatLevel: "high", FailedLogins: 11},
			wantIncident: true,
			wantType:     models.TypeBruteForce,
			wantSeverity: models.SeverityHigh,
		},
		{
			name:         "critical brute force outranks other counters",
			signal:       models.ThreatSummary{SourceIP: "10.0.0.3", ThreatLevel: "critical", FailedLogins: 11, RateLimitViolations: 50, AccountLockouts: 3},
			wantIncident: true,
			wantType:     models.TypeBruteForce,
			wantSeverity: models.SeverityCritical,
		},
		{
			name:         "rate limit abuse",
			signal:       models.ThreatSummary{SourceIP: "10.0.0.4", ThreatLevel: "high", FailedLogins: 10, RateLimitViolations: 6},
			wantIncident: true,
			wantType:     models.TypeRateLimitAbuse,
			wantSeverity: models.SeverityHigh,
		},
		{
			name:         "account lockout",
			signal:       models.ThreatSummary{SourceIP: "10.0.0.5", ThreatLevel: "high", AccountLockouts: 1},
			wantIncident: true,
			wantType:     models.TypeAccountLockout,
			wantSeverity: models.SeverityHigh,
		},
		{
			name:         "suspicious activity fallback",
			signal:       models.ThreatSummary{SourceIP: "10.0.0.6", ThreatLevel: "critical"},
			wantIncident: true,
			wantType:     models.TypeSuspiciousActivity,
			wantSeverity: models.SeverityCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockRepository{})

			inc, err := svc.CreateFromThreatSignal(context.Background(), &tt.signal, "")
			require.NoError(t, err)

			if !tt.wantIncident {
				assert.Nil(t, inc)
				return
			}

			require.NotNil(t, inc)
			assert.Equal(t, tt.wantType, inc.Type)
			assert.Equal(t, tt.wantSeverity, inc.Severity)
			assert.Equal(t, "system", inc.ReportedBy)
			assert.Equal(t, []string{tt.signal.SourceIP}, inc.AffectedIPs)
			assert.Contains(t, inc.Tags, "auto-generated")
			assert.Contains(t, inc.Tags, "threat-intelligence")
			assert.Contains(t, inc.Title, tt.signal.SourceIP)
		})
	}
}

func TestCreateFromThreatSignal_NoDeduplication(t *testing.T) {
	created := 0
	repo := &mockRepository{
		createFunc: func(ctx context.Context, inc *models.Incident) error {
			created++
			return nil
		},
	}
	svc := newTestService(repo)

	signal := &models.ThreatSummary{SourceIP: "10.9.9.9", ThreatLevel: "high", FailedLogins: 20}
	for i := 0; i < 3; i++ {
		inc, err := svc.CreateFromThreatSignal(context.Background(), signal, "system")
		require.NoError(t, err)
		require.NotNil(t, inc)
	}

	assert.Equal(t, 3, created)
}
