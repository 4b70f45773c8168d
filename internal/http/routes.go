// Package http wires the page, the websocket endpoint and the health check
// onto one router.
package http

import (
	"io"
	"io/fs"
	nethttp "net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter serves page at /, ws at /ws and the health check at /health.
func NewRouter(page fs.FS, ws nethttp.HandlerFunc) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/health", HealthHandler()).Methods(nethttp.MethodGet)
	router.HandleFunc("/ws", ws)
	router.PathPrefix("/").Handler(nethttp.FileServer(nethttp.FS(page))).Methods(nethttp.MethodGet)
	return router
}

// WithCORS restricts cross-origin reads to origins.
func WithCORS(h nethttp.Handler, origins []string) nethttp.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{nethttp.MethodGet},
		MaxAge:         300,
	}).Handler(h)
}

// HealthHandler returns a simple health check endpoint.
func HealthHandler() nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusOK)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
}

// OriginAllowed reports whether a websocket origin is in allowed. "*" allows
// any origin.
func OriginAllowed(allowed []string) func(string) bool {
	return func(origin string) bool {
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
