// Package api holds response types shared by every HTTP handler.
package api

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the body of the health endpoint. Cache is "up", "down"
// or "disabled".
type StatusResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache,omitempty"`
}
