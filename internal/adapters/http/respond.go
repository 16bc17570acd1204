package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"lawbix/internal/domain"
)

const maxBodyBytes = 1 << 20

// envelope is the JSON body shape shared by every endpoint.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"success": false, "message": msg})
}

// fail maps a service error onto a status code. Unexpected errors are logged
// and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoCompany):
		writeError(w, http.StatusBadRequest, "No company found. Please register your company first.")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized to access this resource")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "Conflict")
	case errors.Is(err, domain.ErrStorageUnavailable):
		s.logger.WarnContext(r.Context(), "storage unavailable", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "Database not ready. Please run database migrations.")
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a JSON object body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("body", "Request body is required")
		}
		return domain.Invalid("body", "Invalid JSON body")
	}
	return nil
}

// pathID binds a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil || id <= 0 {
		return 0, domain.Invalid(name, fmt.Sprintf("Invalid format for parameter %s", name))
	}
	return id, nil
}

// pathLevel binds a low|medium|high path parameter.
func pathLevel(r *http.Request, name string) (domain.RiskLevel, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	level := domain.RiskLevel(strings.ToLower(raw))
	if err != nil || !level.Valid() {
		return "", domain.Invalid(name, "level must be low, medium or high")
	}
	return level, nil
}

// queryInt binds an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, domain.Invalid(name, fmt.Sprintf("Invalid format for parameter %s", name))
	}
	return v, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return false, domain.Invalid(name, fmt.Sprintf("Invalid format for parameter %s", name))
	}
	return v != nil && *v, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field string, v *string) (*time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	s := strings.TrimSpace(*v)
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, domain.Invalid(field, fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field))
}
