package api

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON writes {"success": true, "data": data}.
func JSON(w http.ResponseWriter, status int, data any) {
	Write(w, status, Response{Success: true, Data: data})
}

// Write encodes body as-is, for endpoints whose envelope differs from Response.
func Write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func JSONError(w http.ResponseWriter, status int, err error) {
	Write(w, status, ErrorResponse{Error: err.Error()})
}

func JSONErrorMessage(w http.ResponseWriter, status int, category, message string) {
	Write(w, status, ErrorResponse{Error: category, Message: message})
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrBadRequest
	}
	return nil
}
