package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError sends a {"detail": msg} JSON body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
