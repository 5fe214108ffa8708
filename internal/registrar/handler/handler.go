// Package handler is the thin HTTP layer over the registrar service. It
// parses requests and translates coded errors; business rules stay in the
// service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leasehold/internal/platform/middleware"
	"leasehold/internal/registrar/models"
	"leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// Service defines the registrar operations the HTTP layer exposes.
type Service interface {
	Register(ctx context.Context, label string, payment uint64, caller domain.Identity) (models.Registration, error)
	Renew(ctx context.Context, label string, payment uint64, caller domain.Identity) (models.Lease, error)
	IsActive(ctx context.Context, label string) (bool, error)
	Lease(ctx context.Context, label string) (models.Lease, error)

	SetFee(ctx context.Context, caller domain.Identity, fee uint64) error
	Withdraw(ctx context.Context, caller domain.Identity) (uint64, error)
	Pause(ctx context.Context, caller domain.Identity) error
	Unpause(ctx context.Context, caller domain.Identity) error
	TransferNamespace(ctx context.Context, caller, newOwner domain.Identity) error
	TransferAdmin(ctx context.Context, caller, next domain.Identity) error

	Fee() uint64
	Paused() bool
}

// Handler wires registrar routes onto a chi router.
type Handler struct {
	logger    *slog.Logger
	service   Service
	validator middleware.JWTValidator
}

// New constructs a Handler.
func New(service Service, validator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service, validator: validator}
}

// Register mounts the public and administrative routes.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Timeout(30 * time.Second))

	// Read-only surface, no authentication and no reentrancy guard.
	router.Get("/names/{label}", h.handleGetName)
	router.Get("/status", h.handleStatus)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/names/{label}/register", h.handleRegister)
		r.Post("/names/{label}/renew", h.handleRenew)

		r.Put("/admin/fee", h.handleSetFee)
		r.Post("/admin/withdraw", h.handleWithdraw)
		r.Post("/admin/pause", h.handlePause)
		r.Post("/admin/unpause", h.handleUnpause)
		r.Post("/admin/namespace/transfer", h.handleTransferNamespace)
		r.Put("/admin/administrator", h.handleTransferAdmin)
	})

	r.Mount("/", router)
}

type paymentRequest struct {
	Payment uint64 `json:"payment"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	reg, err := h.service.Register(r.Context(), chi.URLParam(r, "label"), req.Payment, caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationResponse(reg))
}

func (h *Handler) handleRenew(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	lease, err := h.service.Renew(r.Context(), chi.URLParam(r, "label"), req.Payment, caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaseResponse(lease, true))
}

func (h *Handler) handleGetName(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")

	active, err := h.service.IsActive(r.Context(), label)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := nameResponse{Label: label, Active: active}
	if lease, err := h.service.Lease(r.Context(), label); err == nil {
		leaseResp := toLeaseResponse(lease, active)
		resp.Lease = &leaseResp
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Fee:    h.service.Fee(),
		Paused: h.service.Paused(),
	})
}

type feeRequest struct {
	Fee uint64 `json:"fee"`
}

func (h *Handler) handleSetFee(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req feeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.service.SetFee(r.Context(), caller, req.Fee); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Fee: h.service.Fee(), Paused: h.service.Paused()})
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	amount, err := h.service.Withdraw(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawResponse{Amount: amount})
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	h.adminToggle(w, r, h.service.Pause)
}

func (h *Handler) handleUnpause(w http.ResponseWriter, r *http.Request) {
	h.adminToggle(w, r, h.service.Unpause)
}

func (h *Handler) adminToggle(w http.ResponseWriter, r *http.Request, op func(context.Context, domain.Identity) error) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := op(r.Context(), caller); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Fee: h.service.Fee(), Paused: h.service.Paused()})
}

type transferRequest struct {
	NewOwner string `json:"new_owner"`
}

func (h *Handler) handleTransferNamespace(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	newOwner, err := domain.ParseIdentity(req.NewOwner)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.TransferNamespace(r.Context(), caller, newOwner); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTransferAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	next, err := domain.ParseIdentity(req.NewOwner)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.TransferAdmin(r.Context(), caller, next); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// caller pulls the authenticated identity out of the context. RequireAuth
// guarantees it is present; a miss means broken middleware wiring.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity := middleware.GetIdentity(r.Context())
	if identity == "" {
		h.logger.ErrorContext(r.Context(), "identity missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return domain.Nobody, false
	}
	return domain.Identity(identity), true
}
