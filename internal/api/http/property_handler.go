package http

import (
	"net/http"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/service"
)

type PropertyHandler struct {
	propertySvc service.PropertyService
	rentalSvc   service.RentalService
}

func NewPropertyHandler(propertySvc service.PropertyService, rentalSvc service.RentalService) *PropertyHandler {
	return &PropertyHandler{propertySvc: propertySvc, rentalSvc: rentalSvc}
}

type propertyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
	PriceCents  int64  `json:"price_cents"`
}

func (req propertyRequest) toDomain() *domain.Property {
	return &domain.Property{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		PriceCents:  req.PriceCents,
	}
}

type quoteRequest struct {
	PropertyID int32  `json:"property_id"`
	RentalDays int32  `json:"rental_days"`
	Province   string `json:"province"`
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	items, total, err := h.propertySvc.ListProperties(r.Context(), r.URL.Query().Get("q"), page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, items, total)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.propertySvc.GetProperty(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) Mine(w http.ResponseWriter, r *http.Request) {
	items, err := h.propertySvc.ListMyProperties(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p := req.toDomain()
	if err := h.propertySvc.CreateProperty(r.Context(), UserFromContext(r.Context()), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req propertyRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p := req.toDomain()
	p.ID = id
	updated, err := h.propertySvc.UpdateProperty(r.Context(), UserFromContext(r.Context()), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.propertySvc.DeleteProperty(r.Context(), UserFromContext(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PropertyHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	q, err := h.rentalSvc.Quote(r.Context(), req.PropertyID, req.RentalDays, req.Province)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
