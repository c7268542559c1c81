package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/logging"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error     string              `json:"error"`
	Message   string              `json:"message"`
	Code      string              `json:"code"`
	RequestID string              `json:"request_id,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
	Fields    []domain.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: logging.RequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// writeServiceError maps a service error onto a status code. Validation
// failures list their fields.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{
		Message:   err.Error(),
		RequestID: logging.RequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	var status int
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		status, resp.Code, resp.Fields = http.StatusUnprocessableEntity, "invalid_input", verr.Errors
	case errors.Is(err, domain.ErrInvalidInput):
		status, resp.Code = http.StatusUnprocessableEntity, "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		status, resp.Code = http.StatusNotFound, "not_found"
	case errors.Is(err, export.ErrUnknownKind):
		status, resp.Code = http.StatusNotFound, "unknown_kind"
	default:
		status, resp.Code = http.StatusInternalServerError, "internal_error"
		resp.Message = "Internal server error"
		logging.FromContext(r.Context(), s.logger).Error("request failed", "path", r.URL.Path, "error", err)
	}
	resp.Error = http.StatusText(status)
	writeJSON(w, status, resp)
}

// decodeBody reads a JSON body into dst. An empty body leaves dst as is.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: request body: %v", domain.ErrInvalidInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must hold a single JSON object", domain.ErrInvalidInput)
	}
	return nil
}
