package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON marshals payload with the given status. A nil payload writes
// a JSON null body.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError maps the cross-layer error taxonomy onto HTTP statuses.
// Authentication failures share one generic message so callers cannot
// probe which credential was wrong; data errors stay descriptive.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ref *errs.ReferenceNotFoundError
	switch {
	case errors.Is(err, errs.ErrInvalidCredentials),
		errors.Is(err, errs.ErrInvalidToken),
		errors.Is(err, errs.ErrTokenExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "could not validate user"})
	case errors.Is(err, errs.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin privileges required"})
	case errors.Is(err, errs.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many attempts, retry later"})
	case errors.Is(err, errs.ErrPasswordMismatch):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "password confirmation does not match"})
	case errors.Is(err, errs.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "username already registered"})
	case errors.As(err, &ref):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: ref.Error()})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, errs.ErrUnsupportedLogic), errors.Is(err, errs.ErrInvalidCondition):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.log.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// badRequest reports a malformed payload with its parse error.
func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
