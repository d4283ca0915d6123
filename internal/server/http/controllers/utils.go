package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// allowMethods rejects the request with 405 unless its method is listed.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// parseLimit parses a limit string and returns a valid limit value.
//
// Returns 0 for empty strings or invalid values.
func parseLimit(limitStr string) int {
	if limitStr == "" {
		return 0
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return 0
}

// parseBool parses a boolean string and returns the boolean value.
//
// Returns true for "true" or "1", false otherwise.
func parseBool(s string) bool {
	return s == "true" || s == "1"
}
