// Package shared holds response helpers used by every HTTP handler so the
// JSON envelopes stay consistent across modules.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the standard error envelope.
// Unrecognized errors surface as 500 internal.
func WriteError(w http.ResponseWriter, err error) {
	code := pkgerrors.CodeOf(err)
	message := "internal error"
	var perr pkgerrors.PortalError
	if errors.As(err, &perr) {
		message = perr.Message
	}
	WriteJSON(w, pkgerrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": message,
	})
}
