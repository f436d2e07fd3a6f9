// Package response defines the JSON envelope shared by all API
// handlers and maps domain error codes onto HTTP statuses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/quantfold/helix/internal/core"
)

// Meta contains response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse is the standard success response format.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// JSON writes a success response with data.
func JSON(w http.ResponseWriter, status int, data any) {
	resp := SuccessResponse{
		Data: data,
		Meta: Meta{Timestamp: time.Now().UTC()},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// statusFor maps a domain error code to its HTTP status. Input and
// configuration problems are the caller's fault; missing entities are
// 404; everything else is a server fault.
func statusFor(code string) int {
	switch code {
	case "NO_DATA", "INSUFFICIENT_DATA", "MALFORMED_DATA",
		"CONFIG_INVALID", "CONFIG_MISSING":
		return http.StatusBadRequest
	case "STRATEGY_NOT_FOUND", "JOB_NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// detailFor extracts the error envelope fields from err.
func detailFor(err error) ErrorDetail {
	detail := ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		detail.Code = coreErr.Code
		detail.Message = coreErr.Message
		if coreErr.Cause != nil {
			detail.Cause = coreErr.Cause.Error()
		}
	}
	return detail
}

// Failure writes an error response with the status derived from the
// domain error code.
func Failure(w http.ResponseWriter, err error) {
	detail := detailFor(err)
	write(w, statusFor(detail.Code), detail)
}

// Error writes an error response with an explicit status, for cases
// like authentication where the status is not a function of the error
// code.
func Error(w http.ResponseWriter, status int, err error) {
	write(w, status, detailFor(err))
}

func write(w http.ResponseWriter, status int, detail ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: detail})
}
