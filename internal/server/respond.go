package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	lferrors "github.com/matzehuels/labforge/pkg/errors"
)

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code lferrors.Code) int {
	switch code {
	case lferrors.ErrCodeInvalidInput, lferrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case lferrors.ErrCodeDuplicateName:
		return http.StatusConflict
	case lferrors.ErrCodeUnknownEndpoint:
		return http.StatusUnprocessableEntity
	case lferrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case lferrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case lferrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case lferrors.ErrCodeNetwork, lferrors.ErrCodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := lferrors.GetCode(err)
	if code == "" {
		code = lferrors.ErrCodeInternal
	}
	status := statusFor(code)
	msg := lferrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{
		Error:     string(code),
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return lferrors.New(lferrors.ErrCodeInvalidInput, "request body too large")
		case errors.Is(err, io.EOF):
			return lferrors.New(lferrors.ErrCodeInvalidInput, "request body is empty")
		default:
			return lferrors.Wrap(lferrors.ErrCodeInvalidFormat, err, "invalid JSON body: %v", err)
		}
	}
	return nil
}
