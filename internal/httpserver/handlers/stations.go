package handlers

import (
	"net/http"

	"github.com/JRomainG/TGVMaxBot/internal/httpserver/deps"
)

type stationsResponse struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
}

// Stations lists the stations trips can be created for
func Stations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Stations.Empty() {
			writeError(w, http.StatusServiceUnavailable, "station list unavailable", "")
			return
		}
		writeJSON(w, http.StatusOK, stationsResponse{
			Origins:      d.Stations.Origins,
			Destinations: d.Stations.Destinations,
		})
	}
}
