package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/export"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/middleware"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/session"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/transport/http/shared"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// Sessions resolves the working session an export snapshots from.
type Sessions interface {
	Load(ctx context.Context, rawNIT string) (*session.Session, error)
}

// Runner executes and serves export artifacts.
type Runner interface {
	Request(ctx context.Context, snap export.Snapshot, kind export.Kind) (export.Artifact, error)
	Get(id uuid.UUID) (export.Artifact, error)
	Content(id uuid.UUID, page int) ([]byte, string, error)
}

// Handler handles export endpoints.
type Handler struct {
	logger   *slog.Logger
	sessions Sessions
	runner   Runner
	now      func() time.Time
}

// New creates a new export Handler.
func New(sessions Sessions, runner Runner, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		sessions: sessions,
		runner:   runner,
		now:      time.Now,
	}
}

// Register registers the export routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/clients/{nit}/exports", h.handleRequest)
	r.Get("/exports/{id}", h.handleGet)
	r.Get("/exports/{id}/content", h.handleContent)
}

type exportRequest struct {
	Kind string `json:"kind"`
}

// handleRequest snapshots the current session state and queues the render.
// The response is the queued artifact; callers poll for completion.
func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid request body"))
		return
	}
	kind, err := export.ParseKind(req.Kind)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	sess, err := h.sessions.Load(ctx, chi.URLParam(r, "nit"))
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeInvalidInput) || pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to load session for export",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "failed to load session"))
		return
	}

	record, items, state := sess.Snapshot()
	snap := export.BuildSnapshot(record, items, state, h.now())

	artifact, err := h.runner.Request(ctx, snap, kind)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "export queued",
		"request_id", requestID,
		"export_id", artifact.ID.String(),
		"nit", record.NIT.String(),
		"kind", string(kind),
	)
	shared.WriteJSON(w, http.StatusAccepted, artifact)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid export id"))
		return
	}

	artifact, err := h.runner.Get(id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, artifact)
}

// handleContent streams one rendered page. The page query parameter is
// 1-based and defaults to the first page.
func (h *Handler) handleContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid export id"))
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "page must be numeric"))
			return
		}
	}

	payload, contentType, err := h.runner.Content(id, page)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
