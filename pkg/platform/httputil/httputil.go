// Package httputil holds the JSON response helpers shared by handlers.
package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error envelope returned to callers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err's message in the error envelope. Screening failures
// are reported in the body, so callers usually pass http.StatusOK.
func WriteError(w http.ResponseWriter, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	WriteJSON(w, status, ErrorResponse{Error: msg})
}
