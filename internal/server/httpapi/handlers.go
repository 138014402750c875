package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const minPasswordLength = 6

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, KindBadFormat, "Malformed request body")
		return false
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Firstname == "" || req.Lastname == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, KindMissingField, "All fields are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, KindBadFormat, "Password must be at least 6 characters")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, KindBadFormat, "Invalid email address")
		return
	}

	result, err := s.auth.Register(r.Context(), req.Firstname, req.Lastname, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAuthResponse(result.AccessToken, result.User))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, KindMissingField, "Email and password are required")
		return
	}

	result, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(result.AccessToken, result.User))
}

// handleLogout exists for API symmetry only. Tokens are not tracked server
// side, so there is nothing to invalidate; clients discard their token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := principalFromContext(r.Context())

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	user := principalFromContext(r.Context())

	var req updateEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, KindMissingField, "Email is required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, KindBadFormat, "Invalid email address")
		return
	}

	updated, err := s.users.UpdateEmail(r.Context(), user.ID, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	user := principalFromContext(r.Context())

	var req addFavoriteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ModuleID == "" {
		writeError(w, http.StatusBadRequest, KindMissingField, "module_id is required")
		return
	}

	updated, err := s.users.AddFavorite(r.Context(), user.ID, req.toFavorite())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user := principalFromContext(r.Context())

	moduleID := mux.Vars(r)["moduleId"]

	updated, err := s.users.RemoveFavorite(r.Context(), user.ID, moduleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
