package handlers

import (
	"net/http"

	"github.com/JRomainG/TGVMaxBot/internal/httpserver/deps"
)

type whoamiResponse struct {
	ChatID        int64  `json:"chat_id"`
	UserID        int64  `json:"user_id"`
	Authorized    bool   `json:"authorized"`
	Profile       string `json:"profile,omitempty"`
	CheckInterval string `json:"check_interval,omitempty"`
	Silent        bool   `json:"silent_notifications"`
}

// Whoami echoes the chat and user ids and the profile they resolve to,
// which is what an admin needs to fill in the profiles file.
func Whoami(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := int64Param(r, "chatID")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid chat id", "chat_id")
			return
		}
		userID, ok := int64Query(r, "user_id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid user id", "user_id")
			return
		}

		resp := whoamiResponse{ChatID: chatID, UserID: userID}
		if d.Profiles != nil {
			if p, found := d.Profiles.Lookup(chatID, userID); found {
				resp.Authorized = true
				resp.Profile = p.Name
				resp.Silent = p.SilentNotifications
				interval := p.CheckInterval
				if interval <= 0 {
					interval = d.CheckInterval
				}
				if interval > 0 {
					resp.CheckInterval = interval.String()
				}
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
