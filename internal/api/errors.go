package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/graystore/internal/codec"
	"github.com/nerrad567/graystore/internal/dispatch"
	"github.com/nerrad567/graystore/internal/route"
	"github.com/nerrad567/graystore/internal/store"
)

// Error is the structured error body.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeBodyFormat      = "body_format"
	ErrCodeBadPath         = "bad_path"
	ErrCodeDecode          = "decode_error"
	ErrCodeArgumentCount   = "argument_count"
	ErrCodeValidation      = "validation_error"
	ErrCodeUnknownAction   = "unknown_action"
	ErrCodePayloadTooLarge = "payload_too_large"
	ErrCodeCancelled       = "cancelled"
	ErrCodeInternal        = "internal_error"
)

// classify maps a dispatch failure to a status and code. Failures the
// caller cannot fix are 500s whose detail is logged, not returned.
func classify(err error) (status int, code string, expose bool) {
	var (
		bodyErr  *dispatch.BodyFormatError
		unknown  *route.UnknownActionError
		argErr   *route.ArgumentCountError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, true
	case errors.As(err, &bodyErr):
		return http.StatusBadRequest, ErrCodeBodyFormat, true
	case errors.As(err, &unknown):
		return http.StatusNotFound, ErrCodeUnknownAction, true
	case errors.As(err, &argErr):
		return http.StatusBadRequest, ErrCodeArgumentCount, true
	case codec.IsDecodeError(err):
		return http.StatusBadRequest, ErrCodeDecode, true
	case store.IsValidation(err):
		return http.StatusBadRequest, ErrCodeValidation, true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrCodeCancelled, true
	default:
		return http.StatusInternalServerError, ErrCodeInternal, false
	}
}

// writeJSON writes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}
