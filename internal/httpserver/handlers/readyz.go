package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/JRomainG/TGVMaxBot/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Count  *int   `json:"count,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports whether trips can be accepted. Stations and the search
// cache only degrade the service.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"watcher":  watcherStatus(d),
			"stations": stationsStatus(d),
			"cache":    cacheStatus(r.Context(), d),
		}

		ready := components["watcher"].OK
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: ready, Components: components})
	}
}

func watcherStatus(d deps.Deps) componentStatus {
	if d.Watcher == nil {
		return componentStatus{OK: false, Error: "not initialized"}
	}
	n := d.Watcher.Count()
	return componentStatus{OK: true, Count: &n}
}

func stationsStatus(d deps.Deps) componentStatus {
	if d.Stations.Empty() {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "station-validation-disabled",
		}
	}
	n := len(d.Stations.Origins)
	return componentStatus{OK: true, Count: &n}
}

func cacheStatus(ctx context.Context, d deps.Deps) componentStatus {
	if d.Cache == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := d.Cache.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "every-check-hits-provider",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "enabled"}
}
