package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorHandler centralizes error responses and their logging.
type ErrorHandler struct {
	logger *log.Logger
}

func NewErrorHandler(logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle writes a structured error response and logs it with its category.
func (eh *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, status int, errType, message string, context map[string]any) {
	apiErr := APIError{
		Type:      errType,
		Message:   message,
		Context:   context,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	level := "ERROR"
	if GetErrorCategory(errType) == CategoryValidation || status < 500 {
		level = "WARN"
	}
	eh.logger.Printf(
		"error_occurred level=%s type=%s category=%s status=%d request_id=%s path=%s message=%q",
		level, errType, GetErrorCategory(errType), status, apiErr.RequestID, r.URL.Path, message,
	)
	eh.write(w, status, apiErr)
}

func (eh *ErrorHandler) write(w http.ResponseWriter, status int, apiErr APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Type", apiErr.Type)
	w.Header().Set("X-Error-Category", string(GetErrorCategory(apiErr.Type)))
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// RecoveryHandler turns panics into structured 500 responses.
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())
				eh.logger.Printf(
					"panic_recovered request_id=%s path=%s method=%s panic=%v",
					requestID, r.URL.Path, r.Method, rvr,
				)
				eh.write(w, http.StatusInternalServerError, APIError{
					Type:      ErrTypeInternal,
					Message:   "Internal server error",
					Context:   map[string]any{"panic": fmt.Sprintf("%v", rvr)},
					RequestID: requestID,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
