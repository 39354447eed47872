package web

import (
	"encoding/json"
	"net/http"

	"github.com/hpungsan/taskbox/internal/errors"
	"github.com/hpungsan/taskbox/internal/logger"
)

// messageResponse is the body of successful writes.
type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError maps err to a status code and an {"error": message} body.
// Server-side failures are logged and reported with a generic message.
func renderError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	tbErr, ok := errors.As(err)
	if !ok {
		tbErr = errors.NewInternal(err)
	}

	status := tbErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	message := tbErr.Message
	if status >= http.StatusInternalServerError {
		log.Error("%s %s: %v id=%s", r.Method, r.URL.Path, err, RequestIDFrom(r.Context()))
		message = http.StatusText(status)
	}

	renderJSON(w, status, errorResponse{Error: message})
}
