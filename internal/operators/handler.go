package operators

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatepass-service/pkg/auth"
)

// Handler exposes operator HTTP endpoints.
type Handler struct {
	svc  *Service
	auth *auth.Auth
}

// NewHandler wires a handler to the operator service.
func NewHandler(svc *Service, a *auth.Auth) *Handler {
	return &Handler{svc: svc, auth: a}
}

// Routes returns a chi.Router with all operator routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		r.Get("/{id}", h.GetProfile)
	})

	return r
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}
	resp, err := h.svc.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadInput):
			writeError(w, http.StatusBadRequest, "bad_input", err.Error())
		case errors.Is(err, ErrEmailTaken):
			writeError(w, http.StatusConflict, "email_taken", err.Error())
		default:
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "store unavailable, retry later")
		}
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}
	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "store unavailable, retry later")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	op, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "operator not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "store unavailable, retry later")
		return
	}
	writeJSON(w, http.StatusOK, op)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
