package handlers

import (
	"encoding/json"
	"net/http"

	"drivaBack/internal/models"
	"drivaBack/internal/services"
)

type MessageHandler struct {
	Service *services.MessageService
}

type sendMessageRequest struct {
	ReceiverID int    `json:"receiver_id" validate:"required,gt=0"`
	Text       string `json:"text" validate:"required,max=4000"`
	CarID      *int   `json:"car_id,omitempty" validate:"omitempty,gt=0"`
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	senderID, _ := actorFromContext(r)
	msg, err := h.Service.SendMessage(r.Context(), senderID, req.ReceiverID, req.Text, req.CarID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) GetMessagesForChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	page := queryInt(r, "page", "1")
	limit := queryInt(r, "limit", "50")

	actorID, _ := actorFromContext(r)
	messages, err := h.Service.GetMessagesForChat(r.Context(), chatID, actorID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	if id == "" {
		http.Error(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	actorID, _ := actorFromContext(r)
	if err := h.Service.DeleteMessage(r.Context(), id, actorID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
