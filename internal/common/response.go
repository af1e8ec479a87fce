package common

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error payload inside the {"error": ...} envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONData wraps v in the canonical {"data": ...} envelope.
func JSONData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, dataEnvelope{Data: v})
}

// JSONError renders an error response in the canonical envelope.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: ErrorBody{Code: code, Message: message, Details: details}})
}
