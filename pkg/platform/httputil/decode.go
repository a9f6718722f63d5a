package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "capfinder/pkg/domain-errors"
)

// DecodeJSON decodes a JSON request body into the target type.
// Returns the decoded value and true on success.
// On failure, writes an error response and returns nil, false.
//
// Usage:
//
//	req, ok := httputil.DecodeJSON[capitalRequest](w, r, h.logger)
//	if !ok {
//	    return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(r.Context(), "failed to decode request body",
			"error", err,
			"path", r.URL.Path,
		)
		WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return nil, false
	}
	return &req, true
}
