package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/middleware"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/session"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/transport/http/shared"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// Sessions defines the interface for loading and releasing working sessions.
type Sessions interface {
	Load(ctx context.Context, rawNIT string) (*session.Session, error)
	Unload(ctx context.Context, rawNIT string) error
}

// Handler handles checklist session endpoints. Every route loads (or reuses)
// the working session for the NIT in the path, so edits land on the same
// in-memory state the debounced flusher persists.
type Handler struct {
	logger   *slog.Logger
	sessions Sessions
}

// New creates a new session Handler.
func New(sessions Sessions, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		sessions: sessions,
	}
}

// Register registers the checklist routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/clients/{nit}/checklist", h.handleChecklist)
	r.Put("/clients/{nit}/items/{id}/approval", h.handleSetApproval)
	r.Put("/clients/{nit}/items/{id}/evidence", h.handleSetEvidence)
	r.Put("/clients/{nit}/page", h.handleGoTo)
	r.Post("/clients/{nit}/page/next", h.handleNext)
	r.Post("/clients/{nit}/page/prev", h.handlePrev)
	r.Post("/clients/{nit}/save", h.handleSave)
	r.Post("/clients/{nit}/evidence:clear", h.handleClearEvidence)
	r.Get("/clients/{nit}/counts", h.handleCounts)
	r.Get("/clients/{nit}/sidebar", h.handleSidebar)
	r.Post("/clients/{nit}/sidebar/toggle", h.handleToggleSidebar)
	r.Post("/clients/{nit}/close", h.handleClose)
}

// load resolves the session for the request path, writing the error response
// itself when the lookup fails.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	ctx := r.Context()
	sess, err := h.sessions.Load(ctx, chi.URLParam(r, "nit"))
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeInvalidInput) || pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			shared.WriteError(w, err)
			return nil, false
		}
		h.logger.ErrorContext(ctx, "failed to load session",
			"request_id", middleware.GetRequestID(ctx),
			"nit", chi.URLParam(r, "nit"),
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "failed to load session"))
		return nil, false
	}
	return sess, true
}

func itemID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidInput, "item id must be numeric")
	}
	return id, nil
}

func (h *Handler) handleChecklist(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	shared.WriteJSON(w, http.StatusOK, sess.Checklist())
}

type approvalRequest struct {
	Approval string `json:"aprobado"`
}

func (h *Handler) handleSetApproval(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.load(w, r)
	if !ok {
		return
	}

	id, err := itemID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid request body"))
		return
	}
	label, err := domain.ParseApprovalLabel(req.Approval)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected approval label",
			"request_id", middleware.GetRequestID(ctx),
			"label", req.Approval,
		)
		shared.WriteError(w, err)
		return
	}

	if err := sess.SetApproval(id, label); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sess.Checklist())
}

type evidenceRequest struct {
	Evidence string `json:"evidencias"`
}

func (h *Handler) handleSetEvidence(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.load(w, r)
	if !ok {
		return
	}

	id, err := itemID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req evidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid request body"))
		return
	}

	if err := sess.SetEvidence(id, req.Evidence); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sess.Checklist())
}

type goToRequest struct {
	Page int `json:"page"`
}

// handleGoTo jumps to a page. The current page is persisted before the
// cursor moves, same as the next/prev routes.
func (h *Handler) handleGoTo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.load(w, r)
	if !ok {
		return
	}

	var req goToRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid request body"))
		return
	}

	view, err := sess.GoTo(ctx, req.Page)
	if err != nil {
		h.writeNavError(w, r, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	view, err := sess.Next(r.Context())
	if err != nil {
		h.writeNavError(w, r, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handlePrev(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	view, err := sess.Prev(r.Context())
	if err != nil {
		h.writeNavError(w, r, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

// writeNavError reports a navigation failure. The only way navigation fails
// is the save-before-leave flush hitting storage.
func (h *Handler) writeNavError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	h.logger.ErrorContext(ctx, "failed to persist page before navigation",
		"request_id", middleware.GetRequestID(ctx),
		"nit", chi.URLParam(r, "nit"),
		"error", err.Error(),
	)
	shared.WriteError(w, pkgerrors.New(pkgerrors.CodeStorageUnavailable, "failed to persist progress"))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := sess.Save(ctx); err != nil {
		h.logger.ErrorContext(ctx, "manual save failed",
			"request_id", middleware.GetRequestID(ctx),
			"nit", chi.URLParam(r, "nit"),
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeStorageUnavailable, "failed to persist progress"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := sess.ClearEvidence(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to clear evidence",
			"request_id", middleware.GetRequestID(ctx),
			"nit", chi.URLParam(r, "nit"),
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeStorageUnavailable, "failed to persist progress"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, sess.Checklist())
}

func (h *Handler) handleCounts(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	shared.WriteJSON(w, http.StatusOK, sess.Counts())
}

// handleSidebar projects the summary listing. height and reserved arrive as
// query parameters in pixels; zero or missing values fall back to the
// defaults inside the projection.
func (h *Handler) handleSidebar(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.load(w, r)
	if !ok {
		return
	}

	height := queryInt(r, "height")
	reserved := queryInt(r, "reserved")
	shared.WriteJSON(w, http.StatusOK, sess.Sidebar(height, reserved))
}

func (h *Handler) handleToggleSidebar(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	mode := sess.ToggleSidebar()
	shared.WriteJSON(w, http.StatusOK, map[string]string{"mode": string(mode)})
}

// handleClose flushes and releases the working session. Safe to call for a
// NIT with no live session.
func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.sessions.Unload(ctx, chi.URLParam(r, "nit")); err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to close session",
			"request_id", middleware.GetRequestID(ctx),
			"nit", chi.URLParam(r, "nit"),
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeStorageUnavailable, "failed to persist progress"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
