package api

import (
	"log"
	"net/http"
	"strings"
)

// Internal errors (database details, provider responses, file paths)
// must never reach API consumers. 5xx responses carry a generic safe
// message while the full error is logged server-side.

// respondSafeError logs the internal error and sends a sanitized JSON
// error response to the client.
func respondSafeError(w http.ResponseWriter, code int, internalErr error, publicMsg string) {
	if internalErr != nil {
		log.Printf("ERROR [%d]: %s: %v", code, publicMsg, internalErr)
	}
	respondError(w, code, safeErrorMessage(code, internalErr, publicMsg))
}

// safeErrorMessage maps common internal error patterns to public-safe
// messages. 4xx messages describe user input and pass through.
func safeErrorMessage(code int, internalErr error, fallback string) string {
	if code < 500 {
		if internalErr != nil {
			return internalErr.Error()
		}
		return fallback
	}
	if internalErr == nil {
		return fallback
	}

	errStr := strings.ToLower(internalErr.Error())
	switch {
	case strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp"):
		return "Service temporarily unavailable"

	case strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context canceled"):
		return "Request timed out"

	case strings.Contains(errStr, "sql") ||
		strings.Contains(errStr, "pq:") ||
		strings.Contains(errStr, "query") ||
		strings.Contains(errStr, "scan") ||
		strings.Contains(errStr, "database"):
		return "A database error occurred"
	}
	return fallback
}
