package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UserFromContext(r.Context()))
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.userSvc.UpdateProfile(r.Context(), UserFromContext(r.Context()).ID, req.Name, req.Phone, req.AvatarURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
