package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/service"
)

// OwnerHandler covers the admission decisions and manual client management.
// All routes are behind the owner-only gate.
type OwnerHandler struct {
	admissionService *service.AdmissionService
}

func NewOwnerHandler(admissionService *service.AdmissionService) *OwnerHandler {
	return &OwnerHandler{admissionService: admissionService}
}

type ProvisionClientRequest struct {
	Name string `json:"name"`
}

func (h *OwnerHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.admissionService.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *OwnerHandler) ProvisionClient(w http.ResponseWriter, r *http.Request) {
	var req ProvisionClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	client, apiKey, err := h.admissionService.ProvisionClient(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidNameFormat) {
			writeError(w, http.StatusBadRequest, "name required")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"name":   client.Name,
		"apiKey": apiKey,
	})
}

func (h *OwnerHandler) DisableClient(w http.ResponseWriter, r *http.Request) {
	changed, err := h.admissionService.DisableClient(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "changed": changed})
}

func (h *OwnerHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.admissionService.ListRequests(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *OwnerHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}

	name, err := h.admissionService.Approve(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingPersonalCode):
			writeError(w, http.StatusBadRequest, "request missing personal code")
		case errors.Is(err, domain.ErrRequestNotFound):
			writeError(w, http.StatusNotFound, "request not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "name": name})
}

func (h *OwnerHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}

	if err := h.admissionService.Reject(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			writeError(w, http.StatusNotFound, "request not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
