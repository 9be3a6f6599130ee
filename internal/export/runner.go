package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/audit"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/metrics"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// Kind selects which rendering an export produces.
type Kind string

const (
	// KindDocument renders the full checklist as a paginated page sequence.
	KindDocument Kind = "document"
	// KindSummary renders the single aggregate progress image.
	KindSummary Kind = "summary"
)

// ParseKind validates a client-supplied export kind.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindDocument, KindSummary:
		return Kind(raw), nil
	}
	return "", pkgerrors.New(pkgerrors.CodeInvalidInput, fmt.Sprintf("unknown export kind %q", raw))
}

// Status tracks an export through its lifecycle. Terminal states are
// StatusSucceeded and StatusFailed.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Artifact is the caller-visible view of an export request.
type Artifact struct {
	ID          uuid.UUID  `json:"id"`
	NIT         domain.NIT `json:"nit"`
	Kind        Kind       `json:"kind"`
	Status      Status     `json:"status"`
	ContentType string     `json:"contentType,omitempty"`
	SizeBytes   int        `json:"sizeBytes,omitempty"`
	Pages       int        `json:"pages,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type record struct {
	artifact Artifact
	pages    [][]byte
}

// Runner executes export requests asynchronously and retains the resulting
// artifacts in memory. A rendering failure marks the artifact failed and is
// reported through its status; it never touches checklist state.
type Runner struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor *audit.Publisher
	now     func() time.Time

	mu      sync.RWMutex
	records map[uuid.UUID]*record
	wg      sync.WaitGroup
}

func NewRunner(logger *slog.Logger, m *metrics.Metrics, auditor *audit.Publisher) *Runner {
	return &Runner{
		logger:  logger,
		metrics: m,
		auditor: auditor,
		now:     time.Now,
		records: make(map[uuid.UUID]*record),
	}
}

// Request enqueues an export of the given snapshot and returns immediately
// with the queued artifact. Rendering happens on a background goroutine;
// poll Get for completion.
func (r *Runner) Request(ctx context.Context, snap Snapshot, kind Kind) (Artifact, error) {
	if kind != KindDocument && kind != KindSummary {
		return Artifact{}, pkgerrors.New(pkgerrors.CodeInvalidInput, fmt.Sprintf("unknown export kind %q", kind))
	}

	artifact := Artifact{
		ID:        uuid.New(),
		NIT:       snap.NIT,
		Kind:      kind,
		Status:    StatusQueued,
		CreatedAt: r.now(),
	}

	r.mu.Lock()
	r.records[artifact.ID] = &record{artifact: artifact}
	r.mu.Unlock()

	r.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionExportRequested,
		NIT:       snap.NIT,
		Timestamp: artifact.CreatedAt,
		Detail:    map[string]string{"kind": string(kind), "export_id": artifact.ID.String()},
	})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(artifact.ID, snap, kind)
	}()

	return artifact, nil
}

func (r *Runner) run(id uuid.UUID, snap Snapshot, kind Kind) {
	r.transition(id, func(a *Artifact, _ *record) {
		a.Status = StatusRunning
	})

	var (
		pages [][]byte
		err   error
	)
	switch kind {
	case KindDocument:
		pages, err = RenderDocument(snap)
	case KindSummary:
		var payload []byte
		payload, err = RenderSummary(snap)
		if err == nil {
			pages = [][]byte{payload}
		}
	}

	done := r.now()
	if err != nil {
		r.logger.Error("export render failed",
			slog.String("export_id", id.String()),
			slog.String("nit", snap.NIT.String()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		r.metrics.IncExport(string(kind), string(StatusFailed))
		r.transition(id, func(a *Artifact, _ *record) {
			a.Status = StatusFailed
			a.Error = err.Error()
			a.CompletedAt = &done
		})
		return
	}

	size := 0
	for _, p := range pages {
		size += len(p)
	}
	r.metrics.IncExport(string(kind), string(StatusSucceeded))
	r.transition(id, func(a *Artifact, rec *record) {
		a.Status = StatusSucceeded
		a.ContentType = "image/png"
		a.SizeBytes = size
		a.Pages = len(pages)
		a.CompletedAt = &done
		rec.pages = pages
	})

	r.logger.Info("export completed",
		slog.String("export_id", id.String()),
		slog.String("nit", snap.NIT.String()),
		slog.String("kind", string(kind)),
		slog.Int("pages", len(pages)),
		slog.Int("size_bytes", size))
}

func (r *Runner) transition(id uuid.UUID, apply func(*Artifact, *record)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return
	}
	apply(&rec.artifact, rec)
}

// Get returns the current state of an export.
func (r *Runner) Get(id uuid.UUID) (Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return Artifact{}, pkgerrors.New(pkgerrors.CodeNotFound, "export not found")
	}
	return rec.artifact, nil
}

// Content returns one rendered page of a finished export. Pages are
// 1-based; the summary kind always has exactly one.
func (r *Runner) Content(id uuid.UUID, page int) ([]byte, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "export not found")
	}
	switch rec.artifact.Status {
	case StatusSucceeded:
	case StatusFailed:
		return nil, "", pkgerrors.New(pkgerrors.CodeInvalidInput, "export failed, no content available")
	default:
		return nil, "", pkgerrors.New(pkgerrors.CodeInvalidInput, "export not finished yet")
	}
	if page < 1 || page > len(rec.pages) {
		return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("export has no page %d", page))
	}
	return rec.pages[page-1], rec.artifact.ContentType, nil
}

// Wait blocks until all in-flight renders finish. Used on shutdown and in
// tests.
func (r *Runner) Wait() {
	r.wg.Wait()
}
