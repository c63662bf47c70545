package http

import (
	"net/http"

	"everkeep-backend/internal/service"
)

// NotificationHandler handles the authenticated user's notification feed
type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	page, pageSize := paginationParams(r)

	notifications, total, err := h.noteSvc.GetNotifications(r.Context(), userID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID := claimsFromContext(r.Context()).UserID
	notificationID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.noteSvc.MarkAsRead(r.Context(), userID, notificationID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
