// Package notification defines the fire-and-forget job handed from the
// coordinator to the notification worker. Jobs carry no retry state; the
// core never waits on their delivery.
package notification

// Event names the state change that produced a job
type Event string

const (
	EventSubmitted Event = "invoice_submitted"
	EventPaid      Event = "invoice_paid"
)

// Job is the ephemeral notification payload published to the worker
type Job struct {
	Destination   string `json:"destination"`
	Message       string `json:"message"`
	Event         Event  `json:"event"`
	Fingerprint   string `json:"fingerprint,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
