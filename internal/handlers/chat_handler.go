package handlers

import (
	"net/http"

	"drivaBack/internal/models"
	"drivaBack/internal/services"
)

type ChatHandler struct {
	Service *services.ChatService
}

func (h *ChatHandler) GetChatsForUser(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r)
	chats, err := h.Service.GetChatsForUser(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if chats == nil {
		chats = []models.Chat{}
	}

	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) GetChatByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	actorID, _ := actorFromContext(r)
	chat, err := h.Service.GetChatByID(r.Context(), id, actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	actorID, _ := actorFromContext(r)
	if err := h.Service.DeleteChat(r.Context(), id, actorID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
