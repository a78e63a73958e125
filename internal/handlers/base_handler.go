package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/coursecraft/instructor-console/internal/apiclient"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondAPIError translates a backend API error into an HTTP response,
// preserving per-field validation details when the backend sent them
func (h *BaseHandler) RespondAPIError(w http.ResponseWriter, err error) {
	apiErr, ok := apiclient.AsAPIError(err)
	if !ok {
		h.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch apiErr.Kind {
	case apiclient.KindAuth:
		status = http.StatusUnauthorized
		if apiErr.Status == http.StatusForbidden {
			status = http.StatusForbidden
		}
	case apiclient.KindNotFound:
		status = http.StatusNotFound
	case apiclient.KindValidation:
		status = http.StatusBadRequest
	case apiclient.KindNetwork:
		status = http.StatusBadGateway
	}

	if len(apiErr.Fields) > 0 {
		h.RespondJSON(w, status, map[string]any{
			"error":  apiErr.Message,
			"fields": apiErr.Fields,
		})
		return
	}
	h.RespondError(w, status, apiErr.Message)
}
