// Package handler provides the admin HTTP handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Admin routes.
const (
	LoginPath   = "/admin/login"
	LogoutPath  = "/admin/logout"
	RecordsPath = "/admin/records"
	StaticPath  = "/admin/static"
)

// Handler serves the routes that belong to no admin screen.
type Handler struct {
	logger *slog.Logger
}

// New creates a new Handler instance.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Index sends the site root to the records screen, which in turn sends
// anonymous visitors to the login page.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RecordsPath, http.StatusFound)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "resource not found",
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeHTML sets the HTML content type before a page is rendered.
func writeHTML(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}
