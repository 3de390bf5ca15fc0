package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"faction-hub/internal/core/domain"
)

type errorBody struct {
	Error    string                `json:"error"`
	Problems []domain.FieldProblem `json:"problems,omitempty"`
	War      *domain.War           `json:"war,omitempty"`
}

// badRequest marks a body that could not be decoded at all.
type badRequest struct {
	err error
}

func (e *badRequest) Error() string { return "malformed request: " + e.err.Error() }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		forbidden  *domain.ForbiddenError
		conflict   *domain.ConflictError
		malformed  *badRequest
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Problems: validation.Problems})
	case errors.As(err, &malformed):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: malformed.Error()})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: domain.ErrUnauthenticated.Error()})
	case errors.As(err, &forbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: forbidden.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: conflict.Reason, War: conflict.War})
	default:
		slog.Error("Failed to handle request", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &badRequest{err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &badRequest{err: fmt.Errorf("body must hold a single JSON value")}
	}
	return nil
}
