package http

import (
	"net/http"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/service"
)

type AdminHandler struct {
	adminSvc      service.AdminService
	rentalSvc     service.RentalService
	withdrawalSvc service.WithdrawalService
	messageSvc    service.MessageService
}

func NewAdminHandler(adminSvc service.AdminService, rentalSvc service.RentalService, withdrawalSvc service.WithdrawalService, messageSvc service.MessageService) *AdminHandler {
	return &AdminHandler{
		adminSvc:      adminSvc,
		rentalSvc:     rentalSvc,
		withdrawalSvc: withdrawalSvc,
		messageSvc:    messageSvc,
	}
}

type blockRequest struct {
	Blocked bool `json:"blocked"`
}

type roleRequest struct {
	Role domain.UserRole `json:"role"`
}

type reviewRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

type removeRequest struct {
	Removed bool `json:"removed"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.adminSvc.GetSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AdminHandler) Rentals(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.rentalSvc.ListAllRentals(r.Context(), r.URL.Query().Get("status"), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, items, total)
}

func (h *AdminHandler) OverdueRentals(w http.ResponseWriter, r *http.Request) {
	items, err := h.rentalSvc.ListOverdue(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	q := r.URL.Query()
	items, total, err := h.adminSvc.ListUsers(r.Context(), q.Get("role"), q.Get("q"), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, items, total)
}

func (h *AdminHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req blockRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.adminSvc.BlockUser(r.Context(), UserFromContext(r.Context()), id, req.Blocked)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req roleRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.adminSvc.SetUserRole(r.Context(), UserFromContext(r.Context()), id, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.adminSvc.DeleteUser(r.Context(), UserFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Properties(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.adminSvc.ListProperties(r.Context(), r.URL.Query().Get("status"), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, items, total)
}

func (h *AdminHandler) ReviewProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.adminSvc.ReviewProperty(r.Context(), UserFromContext(r.Context()), id, req.Approve, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) RemoveProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	req := removeRequest{Removed: true}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	p, err := h.adminSvc.RemoveProperty(r.Context(), UserFromContext(r.Context()), id, req.Removed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) Withdrawals(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.withdrawalSvc.ListWithdrawals(r.Context(), r.URL.Query().Get("status"), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, items, total)
}

func (h *AdminHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	wd, err := h.withdrawalSvc.ApproveWithdrawal(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

func (h *AdminHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req rejectRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, w, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	wd, err := h.withdrawalSvc.RejectWithdrawal(r.Context(), UserFromContext(r.Context()), id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wd)
}

func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.messageSvc.ListAllMessages(r.Context(), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, items, total)
}

func (h *AdminHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.messageSvc.DeleteMessage(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
