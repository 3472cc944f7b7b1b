package messaging

// Broker subjects used by the security operations services.
const (
	// SubjectThreatSignal carries per-source threat summaries emitted by
	// the gateway's threat detection pipeline.
	SubjectThreatSignal = "secops.threats.signal"

	// SubjectIncidentsCreated announces newly created incidents.
	SubjectIncidentsCreated = "secops.incidents.created"

	// SubjectIncidentsUpdated announces incident state changes.
	SubjectIncidentsUpdated = "secops.incidents.updated"
)

// QueueSignalWorkers is the queue group for threat signal consumers so a
// signal is handled by exactly one worker.
const QueueSignalWorkers = "secops-signal-workers"
