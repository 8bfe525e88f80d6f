package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout used for trip dates entered by users
// and for rendering trips and tickets back to them.
const DateLayout = "2006-01-02 15:04:05"

// Task is the handle of the recurring poll attached to a trip.
// The scheduler owns the concrete type; the domain only needs to
// keep the handle alongside the criteria it polls for.
type Task interface {
	// Stop prevents any further run without waiting for one in flight.
	Stop()
	// Cancel stops the task and waits until no run is in flight.
	Cancel()
}

// Trip represents a user's standing search criteria.
//
// A Trip is owned by exactly one user's watch list. It is created when
// the front-end has collected and validated every field, and destroyed
// when the user deletes it or when a check finds MaxDate has passed.
type Trip struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is assigned at creation and never reused. Registry indices
	// shift on deletion; the ID does not.
	ID string

	// ─────────────────────────────
	// Search criteria
	// ─────────────────────────────

	// Origin and Destination are provider station identifiers.
	Origin      string
	Destination string

	// MinDate and MaxDate bound the acceptable departure time.
	// Both fall on the same calendar date and MaxDate >= MinDate.
	MinDate time.Time
	MaxDate time.Time

	// MaxDuration caps the journey length. Zero means no cap.
	MaxDuration time.Duration

	// ─────────────────────────────
	// Scheduling
	// ─────────────────────────────

	// CreatedAt is when the trip was registered.
	CreatedAt time.Time

	// Job is the recurring poll task. Nil until scheduled.
	Job Task
}

// NewTrip builds a trip with a fresh identifier.
func NewTrip(origin, destination string, minDate, maxDate time.Time, maxDuration time.Duration) *Trip {
	return &Trip{
		ID:          uuid.NewString(),
		Origin:      origin,
		Destination: destination,
		MinDate:     minDate,
		MaxDate:     maxDate,
		MaxDuration: maxDuration,
	}
}

// Expired reports whether the departure window closed before now.
func (t *Trip) Expired(now time.Time) bool {
	return t.MaxDate.Before(now)
}

// Matches reports whether a ticket satisfies the trip's time window and
// duration cap. Both window bounds are inclusive. Seat availability is
// left to the caller.
func (t *Trip) Matches(ticket Ticket) bool {
	if ticket.DepartureTime.Before(t.MinDate) {
		return false
	}
	if ticket.DepartureTime.After(t.MaxDate) {
		return false
	}
	if t.MaxDuration > 0 && ticket.Duration() > t.MaxDuration {
		return false
	}
	return true
}

func (t *Trip) String() string {
	s := fmt.Sprintf("Trip from %s to %s (departure between %s and %s",
		t.Origin, t.Destination,
		t.MinDate.Format(DateLayout), t.MaxDate.Format(DateLayout))
	if t.MaxDuration > 0 {
		s += ", max duration " + FormatDuration(t.MaxDuration)
	}
	return s + ")"
}

// Request carries who a core operation acts for and where replies go.
type Request struct {
	UserID int64
	ChatID int64

	// Silent asks the sink to deliver without an audible alert.
	Silent bool
}
