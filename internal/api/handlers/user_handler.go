package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pathwaysai/patient-copilot/internal/application/services"
)

// UserHandler handles user and reminder requests.
type UserHandler struct {
	users     *services.UserService
	reminders *services.ReminderService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *services.UserService, reminders *services.ReminderService) *UserHandler {
	return &UserHandler{users: users, reminders: reminders}
}

type createUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.FullName)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

type createReminderRequest struct {
	Title        string    `json:"title"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// CreateReminder handles POST /api/users/{id}/reminders
func (h *UserHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	var req createReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reminder, err := h.reminders.Create(r.Context(), userID, req.Title, req.ScheduledFor)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, reminder)
}

// ListReminders handles GET /api/users/{id}/reminders
func (h *UserHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	reminders, err := h.reminders.ListForUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reminders": reminders,
		"count":     len(reminders),
	})
}
