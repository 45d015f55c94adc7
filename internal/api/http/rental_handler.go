package http

import (
	"net/http"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type statusRequest struct {
	Status domain.RentalStatus `json:"status"`
}

// statusResponse reports a committed transition whose settlement has not
// gone through yet; the settlement job or a repeated completion retries it.
type statusResponse struct {
	Rental            *domain.Rental `json:"rental"`
	SettlementPending bool           `json:"settlement_pending"`
}

func (h *RentalHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := h.rentalSvc.Checkout(r.Context(), UserFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *RentalHandler) Mine(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.rentalSvc.ListMyRentals(r.Context(), UserFromContext(r.Context()), r.URL.Query().Get("status"), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, items, total)
}

func (h *RentalHandler) Lendings(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.rentalSvc.ListLendings(r.Context(), UserFromContext(r.Context()), r.URL.Query().Get("status"), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, items, total)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.rentalSvc.GetRental(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *RentalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.transition(w, r, func(actor *domain.User, id int32) (*domain.Rental, error) {
		return h.rentalSvc.UpdateRentalStatus(r.Context(), actor, id, req.Status)
	})
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(actor *domain.User, id int32) (*domain.Rental, error) {
		return h.rentalSvc.CancelRental(r.Context(), actor, id)
	})
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(actor *domain.User, id int32) (*domain.Rental, error) {
		return h.rentalSvc.MarkReturned(r.Context(), actor, id)
	})
}

func (h *RentalHandler) transition(w http.ResponseWriter, r *http.Request, apply func(*domain.User, int32) (*domain.Rental, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt, err := apply(UserFromContext(r.Context()), id)
	if err != nil {
		if rt == nil {
			writeError(w, r, err)
			return
		}
		logger.ErrorContext(r.Context(), "Rental transition committed without settlement", "rentalID", rt.ID, "error", err)
		writeJSON(w, http.StatusAccepted, statusResponse{Rental: rt, SettlementPending: true})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Rental: rt})
}

func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.rentalSvc.DeleteRental(r.Context(), UserFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
