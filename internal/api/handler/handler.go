// Package handler holds the HTTP handlers of the support chat API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Rrens/support-chat/internal/api/response"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// decode reads a JSON body into v, writing a 400 on failure. An empty body
// is accepted when allowEmpty is set.
func decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		response.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

// sessionRequest is the body of the lifecycle endpoints
type sessionRequest struct {
	SessionID string `json:"sessionId"`
}
