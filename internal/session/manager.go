package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/audit"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/catalog"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/pagination"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/metrics"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/progress"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// Registry is the slice of the client service the session layer needs.
type Registry interface {
	Touch(ctx context.Context, nit domain.NIT) error
}

// Manager owns the live editing sessions, one per loaded client. Loading a
// client reads its record and saved progress; unloading flushes and cancels
// the debounce timer so nothing stale is ever written afterwards.
type Manager struct {
	mu       sync.Mutex
	sessions map[domain.NIT]*Session

	clients  client.Store
	progress progress.Store
	registry Registry
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  *audit.Publisher
}

// NewManager builds the session manager. auditor may be nil.
func NewManager(clients client.Store, progressStore progress.Store, registry Registry, window time.Duration, logger *slog.Logger, m *metrics.Metrics, auditor *audit.Publisher) *Manager {
	return &Manager{
		sessions: make(map[domain.NIT]*Session),
		clients:  clients,
		progress: progressStore,
		registry: registry,
		window:   window,
		logger:   logger,
		metrics:  m,
		auditor:  auditor,
	}
}

// Load returns the session for nit, creating it from storage on first use.
// The pagination cursor always starts at page 1 for a fresh load.
//
// A missing or corrupt progress blob degrades to an empty state with a
// logged warning; losing one saved blob must not block the session.
func (m *Manager) Load(ctx context.Context, rawNIT string) (*Session, error) {
	nit, err := domain.ParseNIT(rawNIT)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[nit]; ok {
		return sess, nil
	}

	record, err := m.clients.Find(ctx, nit)
	if err != nil {
		return nil, err
	}

	state, err := m.progress.Load(ctx, nit)
	if err != nil {
		if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			m.logger.WarnContext(ctx, "saved progress unreadable, starting empty",
				"nit", nit.String(),
				"error", err.Error(),
			)
		}
		state = progress.NewState()
	}

	items := catalog.ItemsFor(record.SchemeKey)
	sess := &Session{
		record: record,
		items:  items,
		state:  state,
		cursor: pagination.NewCursor(len(items)),
	}
	sess.flusher = progress.NewFlusher(nit, m.progress, m.window, m.logger, m.metrics, func(ctx context.Context) {
		m.auditor.Emit(ctx, audit.Event{
			Action: audit.ActionProgressFlushed,
			NIT:    nit,
		})
		if err := m.registry.Touch(ctx, nit); err != nil {
			m.logger.WarnContext(ctx, "touch after flush failed",
				"nit", nit.String(),
				"error", err.Error(),
			)
		}
	})
	m.sessions[nit] = sess
	return sess, nil
}

// Unload flushes outstanding edits, cancels the debounce timer, and drops
// the session. Used when the operator returns to the welcome flow.
func (m *Manager) Unload(ctx context.Context, rawNIT string) error {
	nit, err := domain.ParseNIT(rawNIT)
	if err != nil {
		return err
	}

	m.mu.Lock()
	sess, ok := m.sessions[nit]
	delete(m.sessions, nit)
	m.mu.Unlock()
	if !ok {
		return nil
	}

	return sess.flushAndStop(ctx)
}

// Discard cancels any pending flush WITHOUT persisting and drops the
// session. Wired as the registry's pre-delete hook so finalizing a
// certification never writes stale progress back.
func (m *Manager) Discard(_ context.Context, nit domain.NIT) {
	m.mu.Lock()
	sess, ok := m.sessions[nit]
	delete(m.sessions, nit)
	m.mu.Unlock()
	if ok {
		sess.flusher.Stop()
	}
}
