package httpadapter

import (
	"errors"
	"net/http"

	"lawbix/internal/domain"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Faltan datos")
		return
	}
	token, u, err := s.auth.Register(r.Context(), in.Name, in.Email, in.Password)
	if errors.Is(err, domain.ErrConflict) {
		writeError(w, http.StatusConflict, "Email en uso")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "token": token, "user": u})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Faltan datos")
		return
	}
	token, u, err := s.auth.Login(r.Context(), in.Email, in.Password)
	if errors.Is(err, domain.ErrUnauthorized) {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "token": token, "user": u})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.Me(r.Context(), currentUser(r).ID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "user": u})
}
