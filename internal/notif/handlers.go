package notif

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"labtrack/internal/common"

	"github.com/gorilla/mux"
)

// Handler exposes the notification service over HTTP.
type Handler struct {
	service   *NotificationService
	generator *Generator
}

func NewHandler(service *NotificationService, generator *Generator) *Handler {
	return &Handler{
		service:   service,
		generator: generator,
	}
}

// Register mounts the notification routes. Fixed segments are registered
// before the {id} catch-all so mux matches them first.
func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/notifications/user/{userId}", h.list).Methods("GET")
	router.HandleFunc("/notifications/user/{userId}/stats", h.stats).Methods("GET")
	router.HandleFunc("/notifications/user/{userId}/unread-count", h.unreadCount).Methods("GET")
	router.HandleFunc("/notifications/user/{userId}/read-all", h.markAllRead).Methods("PATCH")
	router.HandleFunc("/notifications/user/{userId}/all", h.deleteAll).Methods("DELETE")
	router.HandleFunc("/notifications/bulk", h.bulkSend).Methods("POST")
	router.HandleFunc("/notifications/generate-from-activities", h.generate).Methods("POST")
	router.HandleFunc("/notifications", h.create).Methods("POST")
	router.HandleFunc("/notifications/{id}", h.get).Methods("GET")
	router.HandleFunc("/notifications/{id}/read", h.markRead).Methods("PATCH")
	router.HandleFunc("/notifications/{id}", h.update).Methods("PUT")
	router.HandleFunc("/notifications/{id}", h.delete).Methods("DELETE")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	query := ListQuery{}
	params := r.URL.Query()
	if page, err := strconv.Atoi(params.Get("page")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(params.Get("limit")); err == nil {
		query.Limit = limit
	}
	switch params.Get("isRead") {
	case "true":
		isRead := true
		query.IsRead = &isRead
	case "false":
		isRead := false
		query.IsRead = &isRead
	}
	query.Type = common.NotificationType(params.Get("type"))
	query.Category = common.Category(params.Get("category"))

	result, err := h.service.List(r.Context(), userID, query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	stats, err := h.service.GetStats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unreadCount": count})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	notification, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notification)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, common.NewValidationError("body", "invalid JSON payload"))
		return
	}

	notification, err := h.service.Create(r.Context(), input, common.ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, notification)
}

func (h *Handler) bulkSend(w http.ResponseWriter, r *http.Request) {
	var input BulkSendInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, common.NewValidationError("body", "invalid JSON payload"))
		return
	}

	notifications, err := h.service.BulkSend(r.Context(), input, common.ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":       fmt.Sprintf("Sent %d notifications", len(notifications)),
		"count":         len(notifications),
		"notifications": notifications,
	})
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	result, err := h.generator.Run(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, common.NewValidationError("body", "invalid JSON payload"))
		return
	}

	notification, err := h.service.Update(r.Context(), id, input, common.ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notification)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	notification, err := h.service.MarkRead(r.Context(), id, common.ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notification)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	modified, err := h.service.MarkAllRead(r.Context(), userID, common.ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "All notifications marked as read",
		"modified": modified,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id, common.ActorFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}

func (h *Handler) deleteAll(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	deleted, err := h.service.DeleteAll(r.Context(), userID, common.ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "All notifications deleted",
		"deleted": deleted,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case common.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
