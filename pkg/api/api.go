// Package api defines the JSON response contracts for the HTTP surface.
package api

import (
	"encoding/json"
	"net/http"

	pkgerrors "pathfinder-backend/pkg/errors"
)

// ErrorResponse is a standardized error message for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success writes a JSON response with the given status code
func Success(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes a standardized JSON error response
func Error(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// HandleServiceError maps an engine error to its HTTP response
func HandleServiceError(w http.ResponseWriter, err error) {
	switch {
	case pkgerrors.IsValidation(err):
		Error(w, http.StatusBadRequest, err.Error())
	case pkgerrors.IsNotFound(err):
		Error(w, http.StatusNotFound, err.Error())
	case pkgerrors.IsTransient(err):
		Error(w, http.StatusServiceUnavailable, pkgerrors.UserMessage(err))
	default:
		Error(w, http.StatusInternalServerError, pkgerrors.UserMessage(err))
	}
}
