package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/deps"
	"github.com/DiasPedroQA/bookmark-converter/internal/stats"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	ServiceMode string                     `json:"service_mode"`
	Components  map[string]componentStatus `json:"components"`
	Stats       stats.Snapshot             `json:"stats"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		components := map[string]componentStatus{
			"engine": {
				OK:   true,
				Mode: "stateless",
			},
			"cache": checkCache(d),
		}

		response := infraResponse{
			ServiceMode: determineServiceMode(components),
			Components:  components,
			Stats:       d.Metrics.Snapshot(),
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// determineServiceMode reports "full" when every component is healthy. A
// dead cache only degrades, conversions still work. A cache that was never
// configured is not a failing component, running without one is a supported
// deployment.
func determineServiceMode(components map[string]componentStatus) string {
	if cache, exists := components["cache"]; exists && !cache.OK {
		return "degraded"
	}
	return "full"
}

func checkCache(d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "every request is converted from scratch",
			Error:  "none",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "every request is converted from scratch",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "repeated payloads served from cache",
		Error:  "none",
	}
}
