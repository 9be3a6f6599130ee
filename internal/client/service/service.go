package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/audit"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/catalog"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/metrics"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/progress"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// Service owns the merchant registry lifecycle. It composes the client and
// progress stores so a record and its checklist state are always created and
// destroyed together (no orphaned progress).
type Service struct {
	clients  client.Store
	progress progress.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  *audit.Publisher

	// onDelete lets the session layer cancel a pending debounced flush for
	// the client being removed, without a package cycle.
	onDelete func(ctx context.Context, nit domain.NIT)

	now func() time.Time
}

// New builds the registry service. auditor may be nil; onDelete is wired by
// main once the session manager exists.
func New(clients client.Store, progressStore progress.Store, logger *slog.Logger, m *metrics.Metrics, auditor *audit.Publisher) *Service {
	return &Service{
		clients:  clients,
		progress: progressStore,
		logger:   logger,
		metrics:  m,
		auditor:  auditor,
		now:      time.Now,
	}
}

// SetOnDelete registers the pre-delete hook. Must be called before serving.
func (s *Service) SetOnDelete(hook func(ctx context.Context, nit domain.NIT)) {
	s.onDelete = hook
}

// Find looks up a merchant record.
//
// Errors: CodeInvalidInput for a malformed NIT, CodeNotFound when no record
// exists (the UI turns this into a "use Create instead" prompt).
func (s *Service) Find(ctx context.Context, rawNIT string) (client.Record, error) {
	nit, err := domain.ParseNIT(rawNIT)
	if err != nil {
		return client.Record{}, err
	}
	return s.clients.Find(ctx, nit)
}

// Create registers a new merchant and initializes its empty progress state.
//
// Errors: CodeInvalidInput for a malformed NIT, empty name, or unknown
// scheme; CodeAlreadyExists when a record for the NIT is present.
func (s *Service) Create(ctx context.Context, rawNIT, name, schemeKey string) (client.Record, error) {
	nit, err := domain.ParseNIT(rawNIT)
	if err != nil {
		return client.Record{}, err
	}
	if name == "" {
		return client.Record{}, pkgerrors.New(pkgerrors.CodeInvalidInput, "client name is required")
	}
	if !catalog.Known(schemeKey) {
		return client.Record{}, pkgerrors.New(pkgerrors.CodeInvalidInput, "unknown certification scheme")
	}

	if _, err := s.clients.Find(ctx, nit); err == nil {
		return client.Record{}, pkgerrors.New(pkgerrors.CodeAlreadyExists, "a client with this nit already exists")
	} else if !errors.Is(err, client.ErrNotFound) && !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return client.Record{}, err
	}

	now := s.now()
	record := client.Record{
		NIT:          nit,
		Name:         name,
		SchemeKey:    schemeKey,
		CreatedAt:    now,
		LastModified: now,
	}
	if err := s.clients.Save(ctx, record); err != nil {
		return client.Record{}, err
	}
	if err := s.progress.Save(ctx, nit, progress.NewState()); err != nil {
		return client.Record{}, err
	}

	s.metrics.IncClientsCreated()
	s.auditor.Emit(ctx, audit.Event{
		Action: audit.ActionClientCreated,
		NIT:    nit,
		Detail: map[string]string{"scheme": schemeKey},
	})
	s.logger.InfoContext(ctx, "client created",
		"nit", nit.String(),
		"scheme", schemeKey,
	)
	return record, nil
}

// Touch bumps the record's lastModified stamp and persists it. Called after
// every progress flush; a vanished record is tolerated (the client may have
// been finalized while a background flush was in flight).
func (s *Service) Touch(ctx context.Context, nit domain.NIT) error {
	record, err := s.clients.Find(ctx, nit)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			return nil
		}
		return err
	}
	record.LastModified = s.now()
	return s.clients.Save(ctx, record)
}

// Delete finalizes a certification: cancels any pending flush, then removes
// the record, the progress blob, and every legacy key variant. Idempotent.
func (s *Service) Delete(ctx context.Context, rawNIT string) error {
	nit, err := domain.ParseNIT(rawNIT)
	if err != nil {
		return err
	}

	if s.onDelete != nil {
		s.onDelete(ctx, nit)
	}
	if err := s.progress.Delete(ctx, nit); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, nit); err != nil {
		return err
	}

	s.metrics.IncClientsDeleted()
	// Two events: the record removal itself, and the domain meaning of that
	// removal (a certification closed out).
	s.auditor.Emit(ctx, audit.Event{
		Action: audit.ActionClientDeleted,
		NIT:    nit,
	})
	s.auditor.Emit(ctx, audit.Event{
		Action: audit.ActionCertificationFinished,
		NIT:    nit,
	})
	s.logger.InfoContext(ctx, "client deleted", "nit", nit.String())
	return nil
}

// List returns every registered merchant.
func (s *Service) List(ctx context.Context) ([]client.Record, error) {
	return s.clients.List(ctx)
}
