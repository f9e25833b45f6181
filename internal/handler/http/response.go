package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/utils"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeSuccess writes result with "status":"success" added.
func writeSuccess(w http.ResponseWriter, result service.Result) {
	body := make(map[string]any, len(result)+1)
	for k, v := range result {
		body[k] = v
	}
	body["status"] = statusSuccess

	utils.WriteJSON(w, body, http.StatusOK)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	utils.WriteJSON(w, errorEnvelope{Status: statusError, Message: message}, statusCode)
}
