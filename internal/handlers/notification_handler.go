package handlers

import (
	"net/http"

	"drivaBack/internal/models"
	"drivaBack/internal/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r)
	page := queryInt(r, "page", "1")
	limit := queryInt(r, "limit", "20")

	notifications, err := h.Service.ListForUser(r.Context(), actorID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	actorID, _ := actorFromContext(r)
	if err := h.Service.MarkRead(r.Context(), id, actorID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r)
	count, err := h.Service.CountUnread(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}
