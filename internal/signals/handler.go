package signals

import (
	"context"
	"encoding/json"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/logging"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/messaging"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/metrics"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

// IncidentCreator is the subset of the incident service the handler needs.
type IncidentCreator interface {
	CreateFromThreatSignal(ctx context.Context, ts *models.ThreatSummary, reportedBy string) (*models.Incident, error)
}

// Handler consumes threat signals from the broker and opens incidents for
// high and critical threats. Processing is fire-and-forget: failures are
// logged and counted, never redelivered.
type Handler struct {
	client  messaging.Client
	service IncidentCreator
	logger  *logging.Logger
	sub     messaging.Subscription
}

// NewHandler creates a threat signal handler.
func NewHandler(client messaging.Client, service IncidentCreator, logger *logging.Logger) *Handler {
	return &Handler{
		client:  client,
		service: service,
		logger:  logger,
	}
}

// Start subscribes to the threat signal subject in a worker queue group so
// each signal is processed by a single instance.
func (h *Handler) Start() error {
	sub, err := h.client.QueueSubscribe(messaging.SubjectThreatSignal, messaging.QueueSignalWorkers, h.handle)
	if err != nil {
		return err
	}
	h.sub = sub
	h.logger.Info("subscribed to threat signals", "subject", messaging.SubjectThreatSignal, "queue", messaging.QueueSignalWorkers)
	return nil
}

// Stop unsubscribes from the threat signal subject.
func (h *Handler) Stop() error {
	if h.sub == nil {
		return nil
	}
	return h.sub.Unsubscribe()
}

func (h *Handler) handle(ctx context.Context, msg *messaging.Message) error {
	var ts models.ThreatSummary
	if err := json.Unmarshal(msg.Data, &ts); err != nil {
		metrics.ThreatSignals.WithLabelValues("error").Inc()
		h.logger.WarnContext(ctx, "discarding malformed threat signal", "error", err)
		return nil
	}

	inc, err := h.service.CreateFromThreatSignal(ctx, &ts, "system")
	if err != nil {
		metrics.ThreatSignals.WithLabelValues("error").Inc()
		h.logger.ErrorContext(ctx, "failed to create incident from threat signal",
			"source_ip", ts.SourceIP, "threat_level", ts.ThreatLevel, "error", err)
		return nil
	}
	if inc == nil {
		metrics.ThreatSignals.WithLabelValues("ignored").Inc()
		return nil
	}

	metrics.ThreatSignals.WithLabelValues("created").Inc()
	h.logger.InfoContext(ctx, "auto-created incident from threat signal",
		"incident_id", inc.ID, "source_ip", ts.SourceIP, "type", inc.Type, "severity", inc.Severity)
	return nil
}
