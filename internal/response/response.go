// file: internal/response/response.go
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"campushire/internal/contextutils"
	"campushire/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// ErrorDetail carries structured error information
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Fields  []services.FieldError  `json:"fields,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder writes enveloped JSON responses
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a response builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Success writes a 200 response with the given payload
func (b *Builder) Success(w http.ResponseWriter, r *http.Request, message string, data interface{}) {
	b.write(w, r, http.StatusOK, &APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created writes a 201 response with the given payload
func (b *Builder) Created(w http.ResponseWriter, r *http.Request, message string, data interface{}) {
	b.write(w, r, http.StatusCreated, &APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NoContent writes an empty 204 response
func (b *Builder) NoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps a service error onto the envelope with its status code
func (b *Builder) Error(w http.ResponseWriter, r *http.Request, err error) {
	detail := &ErrorDetail{}
	status := http.StatusInternalServerError

	switch e := err.(type) {
	case *services.ValidationError:
		status = e.GetStatusCode()
		detail.Type = e.Type
		detail.Message = e.Message
		detail.Code = e.Code
		detail.Fields = e.Fields
	case *services.ServiceError:
		status = e.GetStatusCode()
		detail.Type = e.Type
		detail.Message = e.Message
		detail.Code = e.Code
		detail.Details = e.Details
	default:
		svcErr := services.GetServiceError(err)
		status = svcErr.GetStatusCode()
		detail.Type = svcErr.Type
		// Raw internal errors never reach the client.
		detail.Message = "an internal error occurred"
	}

	if status >= http.StatusInternalServerError {
		b.logger.Error("request failed",
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		detail.Message = "an internal error occurred"
	}

	b.write(w, r, status, &APIResponse{
		Success: false,
		Error:   detail,
	})
}

// BadRequest writes a 400 response with a plain message
func (b *Builder) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	b.write(w, r, http.StatusBadRequest, &APIResponse{
		Success: false,
		Error:   &ErrorDetail{Type: "VALIDATION_ERROR", Message: message},
	})
}

// Unauthorized writes a 401 response with a plain message
func (b *Builder) Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	b.write(w, r, http.StatusUnauthorized, &APIResponse{
		Success: false,
		Error:   &ErrorDetail{Type: "UNAUTHORIZED", Message: message},
	})
}

// Forbidden writes a 403 response with a plain message
func (b *Builder) Forbidden(w http.ResponseWriter, r *http.Request, message string) {
	b.write(w, r, http.StatusForbidden, &APIResponse{
		Success: false,
		Error:   &ErrorDetail{Type: "FORBIDDEN", Message: message},
	})
}

// TooManyRequests writes a 429 response with a plain message
func (b *Builder) TooManyRequests(w http.ResponseWriter, r *http.Request, message string) {
	b.write(w, r, http.StatusTooManyRequests, &APIResponse{
		Success: false,
		Error:   &ErrorDetail{Type: "RATE_LIMIT_ERROR", Message: message},
	})
}

// InternalError writes a 500 response with a plain message
func (b *Builder) InternalError(w http.ResponseWriter, r *http.Request, message string) {
	b.write(w, r, http.StatusInternalServerError, &APIResponse{
		Success: false,
		Error:   &ErrorDetail{Type: "INTERNAL_ERROR", Message: message},
	})
}

// NotFound writes a 404 response with a plain message
func (b *Builder) NotFound(w http.ResponseWriter, r *http.Request, message string) {
	b.write(w, r, http.StatusNotFound, &APIResponse{
		Success: false,
		Error:   &ErrorDetail{Type: "NOT_FOUND", Message: message},
	})
}

func (b *Builder) write(w http.ResponseWriter, r *http.Request, status int, resp *APIResponse) {
	resp.RequestID = contextutils.GetRequestID(r.Context())
	resp.Timestamp = time.Now().Unix()

	// Error envelopes surface the detail as the top-level message too, so
	// clients that only read message still see what went wrong.
	if !resp.Success && resp.Message == "" && resp.Error != nil {
		resp.Message = resp.Error.Message
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.logger.Error("failed to encode response",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}
