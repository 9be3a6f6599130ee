package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/audit"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/progress"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

type noopRegistry struct{}

func (noopRegistry) Touch(context.Context, domain.NIT) error { return nil }

type SessionManagerSuite struct {
	suite.Suite
	clients  *client.InMemoryStore
	progress *progress.InMemoryStore
	manager  *Manager
	nit      domain.NIT
}

func TestSessionManagerSuite(t *testing.T) {
	suite.Run(t, new(SessionManagerSuite))
}

func (s *SessionManagerSuite) SetupTest() {
	s.clients = client.NewInMemoryStore()
	s.progress = progress.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.manager = NewManager(s.clients, s.progress, noopRegistry{}, time.Hour, logger, nil, nil)
	s.nit = domain.NIT("1234567890")

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.clients.Save(context.Background(), client.Record{
		NIT:          s.nit,
		Name:         "Comercio de Prueba",
		SchemeKey:    "pse-avanzado",
		CreatedAt:    now,
		LastModified: now,
	}))
}

func (s *SessionManagerSuite) TestLoad() {
	ctx := context.Background()

	s.Run("unknown nit is not found", func() {
		_, err := s.manager.Load(ctx, "9999999999")
		s.Require().Error(err)
		s.True(pkgerrors.Is(err, pkgerrors.CodeNotFound))
	})

	s.Run("malformed nit is invalid input", func() {
		_, err := s.manager.Load(ctx, "12")
		s.Require().Error(err)
		s.True(pkgerrors.Is(err, pkgerrors.CodeInvalidInput))
	})

	s.Run("fresh load starts at page one with the scheme items", func() {
		sess, err := s.manager.Load(ctx, s.nit.String())
		s.Require().NoError(err)

		view := sess.Checklist()
		s.Equal(1, view.Page)
		s.Equal(4, view.TotalPages, "8 items at 2 per page")
		s.Len(sess.Items(), 8)
	})

	s.Run("repeated loads reuse the live session", func() {
		first, err := s.manager.Load(ctx, s.nit.String())
		s.Require().NoError(err)
		second, err := s.manager.Load(ctx, s.nit.String())
		s.Require().NoError(err)
		s.Same(first, second)
	})

	s.Run("saved progress is restored", func() {
		state := progress.NewState()
		s.Require().NoError(state.SetApproval(1, domain.ApprovalApproved))
		state.SetEvidence(1, "captura previa")
		s.Require().NoError(s.progress.Save(ctx, s.nit, state))

		// Force a reload by dropping the live session.
		s.manager.Discard(ctx, s.nit)

		sess, err := s.manager.Load(ctx, s.nit.String())
		s.Require().NoError(err)
		view := sess.Checklist()
		s.Equal(domain.ApprovalApproved, view.Items[0].Approval)
		s.Equal("captura previa", view.Items[0].Evidence)
	})
}

func (s *SessionManagerSuite) TestUnloadFlushes() {
	ctx := context.Background()

	sess, err := s.manager.Load(ctx, s.nit.String())
	s.Require().NoError(err)
	s.Require().NoError(sess.SetEvidence(1, "editado sin guardar"))

	s.Require().NoError(s.manager.Unload(ctx, s.nit.String()))

	state, err := s.progress.Load(ctx, s.nit)
	s.Require().NoError(err)
	s.Equal("editado sin guardar", state.Evidence(1))

	// Unloading again without a live session is a no-op.
	s.NoError(s.manager.Unload(ctx, s.nit.String()))
}

// An aggressive debounce window keeps the background flush firing while the
// session is still being edited; every write must land from a snapshot, never
// from the live state the edits mutate.
func TestDebouncedFlushToleratesConcurrentEdits(t *testing.T) {
	ctx := context.Background()
	clients := client.NewInMemoryStore()
	store := progress.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := NewManager(clients, store, noopRegistry{}, time.Nanosecond, logger, nil, nil)

	nit := domain.NIT("1234567890")
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, clients.Save(ctx, client.Record{
		NIT:          nit,
		Name:         "Comercio de Prueba",
		SchemeKey:    "pse-avanzado",
		CreatedAt:    now,
		LastModified: now,
	}))

	sess, err := manager.Load(ctx, nit.String())
	require.NoError(t, err)

	for i := 0; i < 2000; i++ {
		require.NoError(t, sess.SetEvidence(1, fmt.Sprintf("<div>nota %d</div>", i)))
	}
	require.NoError(t, manager.Unload(ctx, nit.String()))

	state, err := store.Load(ctx, nit)
	require.NoError(t, err)
	assert.Equal(t, "<div>nota 1999</div>", state.Evidence(1))
}

func TestFlushEmitsAuditEvent(t *testing.T) {
	ctx := context.Background()
	clients := client.NewInMemoryStore()
	store := progress.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sink := audit.NewInMemorySink()
	worker, publisher := audit.NewWorker(sink, 16, logger)
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = worker.Run(workerCtx) }()

	manager := NewManager(clients, store, noopRegistry{}, time.Hour, logger, nil, publisher)

	nit := domain.NIT("1234567890")
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, clients.Save(ctx, client.Record{
		NIT:          nit,
		Name:         "Comercio de Prueba",
		SchemeKey:    "pse-basico",
		CreatedAt:    now,
		LastModified: now,
	}))

	sess, err := manager.Load(ctx, nit.String())
	require.NoError(t, err)
	require.NoError(t, sess.SetEvidence(1, "captura"))
	require.NoError(t, sess.Save(ctx))

	assert.Eventually(t, func() bool {
		for _, e := range sink.Events() {
			if e.Action == audit.ActionProgressFlushed && e.NIT == nit {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func (s *SessionManagerSuite) TestDiscardDropsWithoutPersist() {
	ctx := context.Background()

	sess, err := s.manager.Load(ctx, s.nit.String())
	s.Require().NoError(err)
	s.Require().NoError(sess.SetEvidence(1, "nunca persistido"))

	s.manager.Discard(ctx, s.nit)

	_, err = s.progress.Load(ctx, s.nit)
	s.ErrorIs(err, progress.ErrNotFound)
}
