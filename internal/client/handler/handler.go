package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/platform/middleware"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/transport/http/shared"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// Service defines the interface for merchant registry operations.
type Service interface {
	Find(ctx context.Context, rawNIT string) (client.Record, error)
	Create(ctx context.Context, rawNIT, name, schemeKey string) (client.Record, error)
	Delete(ctx context.Context, rawNIT string) error
	List(ctx context.Context) ([]client.Record, error)
}

// Handler handles merchant registry endpoints.
type Handler struct {
	logger  *slog.Logger
	clients Service
}

// New creates a new client Handler.
func New(clients Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		clients: clients,
	}
}

// Register registers the client routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/clients", h.handleCreate)
	r.Get("/clients", h.handleList)
	r.Get("/clients/{nit}", h.handleFind)
	r.Delete("/clients/{nit}", h.handleDelete)
}

type createRequest struct {
	NIT       string `json:"nit"`
	Name      string `json:"name"`
	SchemeKey string `json:"certificationType"`
}

// handleCreate registers a merchant and initializes its checklist.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid create client request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInvalidInput, "invalid request body"))
		return
	}

	record, err := h.clients.Create(ctx, req.NIT, req.Name, req.SchemeKey)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeInvalidInput) || pkgerrors.Is(err, pkgerrors.CodeAlreadyExists) {
			h.logger.WarnContext(ctx, "create client rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create client",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "failed to create client"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleFind(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, err := h.clients.Find(ctx, chi.URLParam(r, "nit"))
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeInvalidInput) || pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to look up client",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "failed to look up client"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, record)
}

// handleDelete finalizes a certification and removes every stored trace of
// the merchant, legacy key variants included.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.clients.Delete(ctx, chi.URLParam(r, "nit")); err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete client",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "failed to delete client"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.clients.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list clients",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "failed to list clients"))
		return
	}
	if records == nil {
		records = []client.Record{}
	}

	shared.WriteJSON(w, http.StatusOK, records)
}
