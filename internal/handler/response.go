package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-taskboard/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors to flat JSON bodies. Anything that is
// not a classified APIError becomes a 500 with the handler's generic
// message; internal detail never reaches the client.
func writeError(w http.ResponseWriter, err error, internalMessage string) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.HTTPStatus, map[string]string{"error": apiErr.Message})
		return
	}

	slog.Error("internal error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": internalMessage})
}
