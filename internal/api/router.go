package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"route-weather-service/internal/api/handlers"
)

// RouterDeps are the collaborators exposed over HTTP. Metrics is optional.
type RouterDeps struct {
	Timeline *handlers.TimelineHandler
	Metrics  http.Handler
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/timeline", deps.Timeline.Create).Methods(http.MethodPost)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		handlers.WriteError(w, req, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		handlers.WriteError(w, req, http.StatusMethodNotAllowed, "method not allowed")
	})

	return requestIDMiddleware(loggingMiddleware(r))
}
