package handler

import (
	"encoding/json"
	"net/http"
)

// response is the envelope every local endpoint writes. It mirrors the
// upstream API shape, so consumers point one decoder at both surfaces.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// writeData writes a successful envelope with the payload under data.
func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: true, Data: v})
}

// writeError writes a failed envelope with a message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: false, Message: message})
}
