package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

const defaultConversationLimit = 100

// SocketServer upgrades a request into a realtime connection for userID.
type SocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID int32)
}

type MessageHandler struct {
	messageSvc service.MessageService
	hub        SocketServer
}

func NewMessageHandler(messageSvc service.MessageService, hub SocketServer) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc, hub: hub}
}

type sendMessageRequest struct {
	ReceiverID int32  `json:"receiver_id"`
	Text       string `json:"text"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	msg, err := h.messageSvc.SendMessage(r.Context(), UserFromContext(r.Context()), req.ReceiverID, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	items, err := h.messageSvc.ListInbox(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	peerID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit := queryInt32(r, "limit", defaultConversationLimit)
	items, err := h.messageSvc.ListConversation(r.Context(), UserFromContext(r.Context()).ID, peerID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MessageHandler) Connect(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, UserFromContext(r.Context()).ID)
}
