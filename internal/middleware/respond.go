package middleware

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON error shape shared by middleware and handlers.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: code, Details: details})
}
