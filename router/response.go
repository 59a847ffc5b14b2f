package router

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Response is the outbound message a handler or middleware produces.
// Immutable once written by the dispatcher.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type envelope struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON builds a response with an arbitrary JSON payload.
func JSON(status int, v interface{}) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		body = []byte(`{"success":false,"error":"Internal server error"}`)
		status = http.StatusInternalServerError
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json; charset=utf-8")
	return &Response{Status: status, Header: header, Body: body}
}

// Success wraps data in the standard envelope.
func Success(data interface{}, message ...string) *Response {
	env := envelope{Success: true, Data: data}
	if len(message) > 0 {
		env.Message = message[0]
	}
	return JSON(http.StatusOK, env)
}

// Created is Success with a 201 status.
func Created(data interface{}, message string) *Response {
	return JSON(http.StatusCreated, envelope{Success: true, Data: data, Message: message})
}

// NoContent is an empty 204.
func NoContent() *Response {
	return &Response{Status: http.StatusNoContent, Header: make(http.Header)}
}

// Error builds a failure envelope with the given status.
func Error(message string, status int) *Response {
	return JSON(status, envelope{Success: false, Error: message})
}

func BadRequest(message string) *Response {
	return Error(message, http.StatusBadRequest)
}

func Unauthorized(message string) *Response {
	return Error(message, http.StatusUnauthorized)
}

func Forbidden(message string) *Response {
	return Error(message, http.StatusForbidden)
}

func NotFound(message string) *Response {
	return Error(message, http.StatusNotFound)
}

func MethodNotAllowed() *Response {
	return Error("Method not allowed", http.StatusMethodNotAllowed)
}

func UnsupportedMediaType(message string) *Response {
	return Error(message, http.StatusUnsupportedMediaType)
}

// ValidationError carries a field-keyed error map with a 422.
func ValidationError(errors map[string]string) *Response {
	return JSON(http.StatusUnprocessableEntity, envelope{
		Success: false,
		Error:   "Validation failed",
		Errors:  errors,
	})
}

// TooManyRequests sets the Retry-After hint alongside the 429 envelope.
func TooManyRequests(retryAfter int) *Response {
	resp := Error("Too many requests. Please try again later.", http.StatusTooManyRequests)
	resp.Header.Set("Retry-After", strconv.Itoa(retryAfter))
	return resp
}

func ServerError(message string) *Response {
	return Error(message, http.StatusInternalServerError)
}
