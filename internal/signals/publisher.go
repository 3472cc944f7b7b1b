// Package signals connects the incident service to the message broker:
// it publishes incident lifecycle events and consumes threat signals.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/messaging"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

// IncidentEvent is the payload published on incident lifecycle subjects.
type IncidentEvent struct {
	Event     string           `json:"event"`
	Timestamp time.Time        `json:"timestamp"`
	Incident  *models.Incident `json:"incident"`
}

// Publisher publishes incident lifecycle events to the broker.
type Publisher struct {
	client messaging.Client
}

// NewPublisher creates a publisher backed by the given broker client.
func NewPublisher(client messaging.Client) *Publisher {
	return &Publisher{client: client}
}

// IncidentCreated publishes an incident created event.
func (p *Publisher) IncidentCreated(ctx context.Context, inc *models.Incident) error {
	return p.publish(ctx, messaging.SubjectIncidentsCreated, "incident.created", inc)
}

// IncidentUpdated publishes an incident updated event.
func (p *Publisher) IncidentUpdated(ctx context.Context, inc *models.Incident) error {
	return p.publish(ctx, messaging.SubjectIncidentsUpdated, "incident.updated", inc)
}

func (p *Publisher) publish(ctx context.Context, subject, event string, inc *models.Incident) error {
	payload, err := json.Marshal(IncidentEvent{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Incident:  inc,
	})
	if err != nil {
		return fmt.Errorf("marshal incident event: %w", err)
	}
	if err := p.client.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}
