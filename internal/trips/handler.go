package trips

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatepass-service/pkg/auth"
	"gatepass-service/pkg/token"
)

// unauthorizedMessage is the single body returned for every failed gate
// check. It is constant so a caller without the credential cannot tell a
// valid token from garbage.
const unauthorizedMessage = "ACCESS DENIED: police authorization required"

// Handler exposes trip HTTP endpoints.
type Handler struct {
	svc  *Service
	auth *auth.Auth
}

// NewHandler wires a handler to the trip service and operator auth.
func NewHandler(svc *Service, a *auth.Auth) *Handler {
	return &Handler{svc: svc, auth: a}
}

// Routes returns a chi.Router with the operator-facing trip routes.
// Verification is mounted separately because police authenticate with the
// X-Police-Auth header, not an operator session.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.auth.RequireAuth)

	r.Post("/", h.Create)
	r.Get("/recent", h.Recent)
	r.Post("/{id}/revoke", h.Revoke)
	r.Post("/{id}/location", h.Location)

	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}

	resp, err := h.svc.Issue(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Verify handles POST /verify. The caller credential travels out-of-band in
// the X-Police-Auth header; it never appears in the token. A body that does
// not parse is passed through as an empty token so the gate check still
// runs first and the unauthorized response stays uniform.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	credential := r.Header.Get("X-Police-Auth")

	var req VerifyRequest
	json.NewDecoder(r.Body).Decode(&req)

	view, err := h.svc.Verify(r.Context(), req.Token, credential)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Recent(r.Context(), 10)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []Trip{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Revoke(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "REVOKED"})
}

func (h *Handler) Location(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_input", "invalid request body")
		return
	}
	if err := h.svc.UpdateLocation(r.Context(), chi.URLParam(r, "id"), req.Lat, req.Lng); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// writeServiceError maps a service error to its status, code, and message.
// Unauthorized responses are byte-identical regardless of cause; internal
// failures never echo their detail to the caller.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusForbidden, "unauthorized", unauthorizedMessage)
	case errors.Is(err, token.ErrMalformed):
		writeError(w, http.StatusUnauthorized, "token_malformed", "gatepass rejected: malformed token")
	case errors.Is(err, token.ErrSignatureInvalid):
		writeError(w, http.StatusUnauthorized, "token_signature", "gatepass rejected: signature invalid")
	case errors.Is(err, token.ErrExpired):
		writeError(w, http.StatusUnauthorized, "token_expired", "gatepass rejected: token expired")
	case errors.Is(err, ErrTripRevoked):
		writeError(w, http.StatusGone, "trip_revoked", "gatepass rejected: trip revoked")
	case errors.Is(err, ErrTripNotFound):
		writeError(w, http.StatusNotFound, "trip_not_found", "invalid or expired QR code")
	case errors.Is(err, ErrExpiredDocument):
		writeError(w, http.StatusUnprocessableEntity, "expired_document", err.Error())
	case errors.Is(err, ErrBadVehicle):
		writeError(w, http.StatusBadRequest, "bad_vehicle", err.Error())
	case errors.Is(err, ErrBadInput):
		writeError(w, http.StatusBadRequest, "bad_input", err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "store unavailable, retry later")
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
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
