package transport

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error    string            `json:"error"`
	Details  map[string]string `json:"details,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// WriteErrorRedirect is WriteError plus a redirect hint the frontend
// follows to the right login page.
func WriteErrorRedirect(w http.ResponseWriter, status int, message, redirect string) {
	WriteJSON(w, status, ErrorResponse{
		Error:    message,
		Redirect: redirect,
	})
}
