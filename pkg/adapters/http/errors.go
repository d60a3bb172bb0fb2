package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/aretw0/flowboard/pkg/editor"
	"github.com/aretw0/flowboard/pkg/schema"
	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var verr *schema.ValidationError
	var aerr *schema.AggregateError
	var ferr validator.ValidationErrors
	var berr badRequest
	switch {
	case errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrEdgeNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateID),
		errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownNodeType),
		errors.Is(err, domain.ErrInvalidConnection),
		errors.Is(err, editor.ErrReservedKey),
		errors.As(err, &verr),
		errors.As(err, &aerr),
		errors.As(err, &ferr),
		errors.As(err, &berr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrValidatorRejected):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrValidatorUnreachable),
		errors.Is(err, editor.ErrNoValidator):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var ferr validator.ValidationErrors
	if errors.As(err, &ferr) {
		resp.Error = "invalid request"
		for _, fe := range ferr {
			resp.Details = append(resp.Details, fe.Namespace()+" failed "+fe.Tag())
		}
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "Request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	writeJSON(w, status, resp)
}
