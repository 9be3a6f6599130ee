package audit

import (
	"context"
	"time"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// Action names an auditable portal event.
type Action string

const (
	ActionClientCreated         Action = "client_created"
	ActionClientDeleted         Action = "client_deleted"
	ActionCertificationFinished Action = "certification_finalized"
	ActionProgressFlushed       Action = "progress_flushed"
	ActionExportRequested       Action = "export_requested"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Action    Action            `json:"action"`
	NIT       domain.NIT        `json:"nit"`
	Timestamp time.Time         `json:"timestamp"`
	RequestID string            `json:"request_id,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// Sink receives audit events. Implementations must tolerate bursts; slow
// sinks sit behind the Worker, not in the request path.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher hands events to the background worker. A nil *Publisher is a
// valid no-op so callers never branch on whether auditing is configured.
type Publisher struct {
	inbox chan<- Event
}

// Emit enqueues the event, stamping the time when unset. Events are dropped
// (never blocking the caller) if the worker's buffer is full.
func (p *Publisher) Emit(_ context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case p.inbox <- event:
	default:
	}
}
