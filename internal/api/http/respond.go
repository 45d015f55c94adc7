package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"renthub-backend/internal/logger"
	"renthub-backend/internal/security"
	"renthub-backend/internal/service"
)

const (
	maxBodyBytes    = 1 << 20
	defaultPageSize = 20
)

type errorResponse struct {
	Error string `json:"error"`
}

type pageResponse struct {
	Items    any   `json:"items"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError maps service errors to HTTP status codes. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRentalNotFound),
		errors.Is(err, service.ErrPropertyNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrWithdrawalNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, service.ErrSettingsNotFound):
		return http.StatusNotFound
	case errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrMissingEmail),
		errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAccountInactive):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrPropertyUnavailable):
		return http.StatusConflict
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, w http.ResponseWriter, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", service.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", service.ErrInvalidInput, name)
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 32)
	if err != nil || v <= 0 {
		return def
	}
	return int32(v)
}

func pageParams(r *http.Request) (page, pageSize int32) {
	return queryInt32(r, "page", 1), queryInt32(r, "page_size", defaultPageSize)
}

func writePage(w http.ResponseWriter, r *http.Request, items any, total int32) {
	page, size := pageParams(r)
	writeJSON(w, http.StatusOK, pageResponse{Items: items, Total: total, Page: page, PageSize: size})
}
