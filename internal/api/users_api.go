package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"stolik/internal/models"
)

// UserRequest is the request body for POST /api/users.
type UserRequest struct {
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

// handleUsers lists and registers users.
// GET /api/users
// POST /api/users
func (s *HTTPServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if err := s.access.RequirePrivilege(r.Context(), callerID(r)); err != nil {
			writeAccessError(w, r, err)
			return
		}
		users, err := s.db.ListUsers(r.Context())
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("list users failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})

	case http.MethodPost:
		var req UserRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if !strings.Contains(req.Email, "@") {
			writeError(w, http.StatusBadRequest, "valid email is required")
			return
		}
		// Only a privileged caller may mint another admin.
		if req.IsAdmin {
			if err := s.access.RequirePrivilege(r.Context(), callerID(r)); err != nil {
				writeAccessError(w, r, err)
				return
			}
		}
		user := &models.User{Email: req.Email, Phone: req.Phone, IsAdmin: req.IsAdmin}
		id, err := s.db.CreateUser(r.Context(), user)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("email", req.Email).Msg("create user failed")
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		user.ID = id
		writeJSON(w, http.StatusCreated, user)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
