package http

import (
	"net/http"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/service"
)

type SettingsHandler struct {
	settingsSvc service.SettingsService
}

func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

func (h *SettingsHandler) GetGCash(w http.ResponseWriter, r *http.Request) {
	s, err := h.settingsSvc.GetGCashSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) UpdateGCash(w http.ResponseWriter, r *http.Request) {
	var req domain.PaymentSettings
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.settingsSvc.UpdateGCashSettings(r.Context(), UserFromContext(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
