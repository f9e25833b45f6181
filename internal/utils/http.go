package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// marshalFailureBody is sent when a response cannot be encoded. It keeps the
// procedure envelope so callers still see "status":"error".
const marshalFailureBody = `{"status":"error","message":"error writing data to JSON"}`

// WriteJSON writes data as a JSON body with statusCode and returns the
// number of body bytes written. If data cannot be encoded the response is
// a 500 error envelope and the encoding error is returned.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(marshalFailureBody))
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.WriteHeader(statusCode)
	return w.Write(body)
}
