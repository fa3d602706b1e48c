package response

import (
	"encoding/json"
	"innkeeper/shared/constant"
	"innkeeper/shared/failure"
	"innkeeper/shared/logger"
	"net/http"
)

type Envelope struct {
	Success bool    `json:"success"`
	Data    any     `json:"data,omitempty"`
	Message *string `json:"message,omitempty"`
	Warning bool    `json:"warning,omitempty"`
}

// WithMessage sends a successful response carrying a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Envelope{Success: code < http.StatusBadRequest, Message: &message})
}

// WithJSON sends a successful response containing a JSON payload
func WithJSON(writer http.ResponseWriter, code int, jsonPayload interface{}) {
	response(writer, code, Envelope{Success: true, Data: jsonPayload})
}

// WithWarning sends a successful response whose payload carries a warning flag,
// used when an operation went through but needs front-desk attention.
func WithWarning(writer http.ResponseWriter, code int, jsonPayload interface{}, message string) {
	response(writer, code, Envelope{Success: true, Data: jsonPayload, Message: &message, Warning: true})
}

// WithError sends a response with an error message
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	errMsg := err.Error()

	response(writer, code, Envelope{Success: false, Message: &errMsg})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithSearchCooldown sends a default response for when the availability search cooldown is active
func WithSearchCooldown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorSearchCooldown)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
