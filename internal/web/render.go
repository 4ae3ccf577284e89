// Package web exposes the read-only schema query API: a projection of the
// host's content-type graph into DTOs, served over chi. No mutation, no
// caching.
package web

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON shape of API error responses.
type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// renderJSON marshals before touching the response so a marshal failure
// never produces a partial write.
func renderJSON(w http.ResponseWriter, status int, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

// renderError writes a JSON error body with the given status.
func renderError(w http.ResponseWriter, status int, message string) {
	_ = renderJSON(w, status, errorBody{Error: message, Status: status})
}
