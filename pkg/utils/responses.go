package utils

import (
	"encoding/json"
	"net/http"
)

// FieldErrors maps a JSON field name to its validation message.
type FieldErrors map[string]string

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    any         `json:"data,omitempty"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// ResponseJSON writes response with the given status code
func ResponseJSON(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, Response{Status: true, Message: message, Data: data})
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, Response{Status: true, Message: message, Data: data})
}

// returns 204 No Content
func ResponseNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ------------- Error responses -------------

// ResponseError writes a failed envelope without field errors.
func ResponseError(w http.ResponseWriter, code int, message string) {
	ResponseJSON(w, code, Response{Message: message})
}

// ResponseValidation returns 400 with one message per offending field.
func ResponseValidation(w http.ResponseWriter, message string, fields FieldErrors) {
	ResponseJSON(w, http.StatusBadRequest, Response{Message: message, Errors: fields})
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusBadRequest, message)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, message)
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusForbidden, message)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, message)
}

// returns 405 Method Not Allowed
func ResponseMethodNotAllowed(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusMethodNotAllowed, message)
}

// returns 429 Too Many Requests
func ResponseTooManyRequests(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusTooManyRequests, message)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, message)
}
