package handlers

import (
	"net/http"

	"github.com/JRomainG/TGVMaxBot/internal/httpserver/deps"
	"github.com/JRomainG/TGVMaxBot/internal/logger"
)

type flushResponse struct {
	Deleted int `json:"deleted"`
}

// FlushCache drops every cached provider response, forcing the next
// checks to query the provider
func FlushCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Cache == nil {
			writeError(w, http.StatusNotFound, "search cache disabled", "")
			return
		}

		deleted, err := d.Cache.FlushSearches(r.Context())
		if err != nil {
			d.Logger.Error("failed to flush search cache", logger.Error(err))
			writeError(w, http.StatusBadGateway, "failed to flush search cache", "")
			return
		}

		d.Logger.Info("search cache flushed",
			logger.Int("deleted", deleted),
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, flushResponse{Deleted: deleted})
	}
}
