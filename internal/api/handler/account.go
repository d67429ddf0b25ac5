// internal/api/handler/account.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/service"
)

// AccountHandler handles registration, login and user lookups.
type AccountHandler struct {
	responder
	service service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register creates a user.
// POST /api/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and returns the user.
// POST /api/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// GetUserByEmail returns a user snapshot, used by clients to refresh state.
// GET /api/user/{email}
func (h *AccountHandler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// UserSummary is the public listing entry of a user.
type UserSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Inventory []string `json:"inventory"`
}

// ListUsers returns every user with its inventory.
// GET /api/users
func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, summarize(users))
}

func summarize(users []domain.User) []UserSummary {
	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, UserSummary{ID: u.ID, Name: u.Name, Inventory: u.Inventory})
	}
	return summaries
}
