package handlers

import (
	"encoding/json"
	"net/http"

	"validator-monitor/internal/logger"
	"validator-monitor/internal/repository"
	"validator-monitor/internal/types"
)

// healthStatus is the response of the health check.
type healthStatus struct {
	Status    string           `json:"status"`
	Endpoints []types.Endpoint `json:"endpoints"`
}

// Health constructs the health check handler; the server is healthy
// if at least one node endpoint is ready.
func Health(repo repository.Repository, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		st := healthStatus{Status: "ok", Endpoints: repo.Endpoints()}

		code := http.StatusOK
		if len(st.Endpoints) == 0 {
			st.Status = "unavailable"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(st); err != nil {
			log.Errorf("can not write health status; %s", err.Error())
		}
	}
}
