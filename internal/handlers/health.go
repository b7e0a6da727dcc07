package handlers

import (
	"encoding/json"
	"net/http"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type ReadyResponse struct {
	Status  string `json:"status"`
	Channel string `json:"channel"`
}

// ReadinessFunc reports whether the process can do its job right now.
type ReadinessFunc func() bool

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// ReadyHandler reports "ready" while ready returns true. A nil ready func is
// always ready.
func ReadyHandler(ready ReadinessFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := ReadyResponse{
			Status:  "ready",
			Channel: "ok",
		}

		if ready != nil && !ready() {
			response.Status = "not ready"
			response.Channel = "down"
		}

		w.Header().Set("Content-Type", "application/json")
		if response.Status != "ready" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}
