package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
	"github.com/JRomainG/TGVMaxBot/internal/httpserver/deps"
	"github.com/JRomainG/TGVMaxBot/internal/index"
	"github.com/JRomainG/TGVMaxBot/internal/logger"
	"github.com/JRomainG/TGVMaxBot/internal/profile"
)

const maxBodyBytes = 1 << 16

type tripResponse struct {
	Index       int       `json:"index"`
	ID          string    `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	MinDate     string    `json:"min_date"`
	MaxDate     string    `json:"max_date"`
	MaxDuration string    `json:"max_duration,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Summary     string    `json:"summary"`
}

type createTripRequest struct {
	ChatID      int64  `json:"chat_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	MinDate     string `json:"min_date"`
	MaxDate     string `json:"max_date"`
	MaxDuration string `json:"max_duration"`
}

func toTripResponse(idx int, trip *domain.Trip, loc *time.Location) tripResponse {
	if loc == nil {
		loc = time.Local
	}
	resp := tripResponse{
		Index:       idx,
		ID:          trip.ID,
		Origin:      trip.Origin,
		Destination: trip.Destination,
		MinDate:     trip.MinDate.In(loc).Format(domain.DateLayout),
		MaxDate:     trip.MaxDate.In(loc).Format(domain.DateLayout),
		CreatedAt:   trip.CreatedAt,
		Summary:     trip.String(),
	}
	if trip.MaxDuration > 0 {
		resp.MaxDuration = domain.FormatDuration(trip.MaxDuration)
	}
	return resp
}

// authorize resolves the caller's profile or writes a 403
func authorize(w http.ResponseWriter, d deps.Deps, chatID, userID int64) (*profile.Profile, bool) {
	if d.Profiles == nil {
		return nil, false
	}
	p, ok := d.Profiles.Lookup(chatID, userID)
	if !ok {
		d.Logger.Warn("unauthorized caller",
			logger.Int64("chat_id", chatID),
			logger.Int64("user_id", userID))
		writeError(w, http.StatusForbidden, "you are not allowed to use this bot", "")
		return nil, false
	}
	return p, true
}

// ListTrips returns the user's trips with the indices DeleteTrip expects
func ListTrips(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := int64Param(r, "userID")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid user id", "user_id")
			return
		}
		chatID, ok := int64Query(r, "chat_id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid chat id", "chat_id")
			return
		}
		if _, ok := authorize(w, d, chatID, userID); !ok {
			return
		}

		trips := d.Watcher.List(userID)
		resp := make([]tripResponse, 0, len(trips))
		for i, trip := range trips {
			resp = append(resp, toTripResponse(i, trip, d.Location))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// CreateTrip validates the submitted criteria and starts watching them
func CreateTrip(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := int64Param(r, "userID")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid user id", "user_id")
			return
		}

		var body createTripRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", "")
			return
		}
		if body.ChatID == 0 {
			writeError(w, http.StatusBadRequest, "chat_id is required", "chat_id")
			return
		}

		prof, ok := authorize(w, d, body.ChatID, userID)
		if !ok {
			return
		}

		trip, err := domain.ValidateTrip(domain.TripParams{
			Origin:      body.Origin,
			Destination: body.Destination,
			MinDate:     body.MinDate,
			MaxDate:     body.MaxDate,
			MaxDuration: body.MaxDuration,
		}, d.Stations, d.Location, d.Now())
		if err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				writeError(w, http.StatusBadRequest, ve.Message, ve.Field)
				return
			}
			writeError(w, http.StatusBadRequest, err.Error(), "")
			return
		}

		req := domain.Request{
			UserID: userID,
			ChatID: body.ChatID,
			Silent: prof.SilentNotifications,
		}
		idx, err := d.Watcher.Add(req, trip, prof.CheckInterval)
		if err != nil {
			d.Logger.Error("failed to schedule trip", logger.Error(err))
			writeError(w, http.StatusServiceUnavailable, "trip could not be scheduled", "")
			return
		}

		writeJSON(w, http.StatusCreated, toTripResponse(idx, trip, d.Location))
	}
}

// DeleteTrip stops watching the trip at the given index. Indices shift
// after a deletion, so clients list again before deleting another one.
func DeleteTrip(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := int64Param(r, "userID")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid user id", "user_id")
			return
		}
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid trip index", "index")
			return
		}
		chatID, ok := int64Query(r, "chat_id")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid chat id", "chat_id")
			return
		}
		if _, ok := authorize(w, d, chatID, userID); !ok {
			return
		}

		if _, err := d.Watcher.Remove(userID, idx); err != nil {
			if errors.Is(err, index.ErrNotFound) {
				writeError(w, http.StatusNotFound, "no trip at this index", "index")
				return
			}
			d.Logger.Error("failed to remove trip", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to remove trip", "")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
