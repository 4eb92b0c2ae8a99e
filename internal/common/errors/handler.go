package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorHandler turns component errors into client responses and log entries.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Response is the body written for a failed request.
type Response struct {
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Code    ErrorCode `json:"code"`
}

// WriteError normalizes err, logs it and writes the JSON failure body.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, err error) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)
	h.logError(stdErr, status)
	WriteJSON(w, status, Response{
		Success: false,
		Error:   stdErr.Message,
		Code:    stdErr.Code,
	})
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *ErrorHandler) logError(stdErr *StandardError, status int) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"status":        status,
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields)
		return
	}
	h.logger.Warn("Request rejected", fields)
}
