package domain

import (
	"fmt"
	"time"
)

// Ticket is one offer returned by the provider for a route and date window.
// Tickets are immutable values.
type Ticket struct {
	Origin         string
	Destination    string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	Transporter    string
	TrainID        string
	AvailableSeats int
}

// TicketKey identifies the offering behind a ticket. Seat counts change
// between polls for the same offering, so they are not part of the key.
type TicketKey struct {
	TrainID       string
	Origin        string
	Destination   string
	Transporter   string
	DepartureTime int64
	ArrivalTime   int64
}

// Key returns the identity of the ticket's offering.
func (t Ticket) Key() TicketKey {
	return TicketKey{
		TrainID:       t.TrainID,
		Origin:        t.Origin,
		Destination:   t.Destination,
		Transporter:   t.Transporter,
		DepartureTime: t.DepartureTime.UnixNano(),
		ArrivalTime:   t.ArrivalTime.UnixNano(),
	}
}

// Equal compares offerings, ignoring available seats.
func (t Ticket) Equal(other Ticket) bool {
	return t.Key() == other.Key()
}

// Available reports whether at least one seat can be booked.
func (t Ticket) Available() bool {
	return t.AvailableSeats > 0
}

// Duration is the journey length.
func (t Ticket) Duration() time.Duration {
	return t.ArrivalTime.Sub(t.DepartureTime)
}

// Departed reports whether the train left before now.
func (t Ticket) Departed(now time.Time) bool {
	return t.DepartureTime.Before(now)
}

func (t Ticket) String() string {
	return fmt.Sprintf("Ticket from %s to %s, %s - %s (%s), %d seats available",
		t.Origin, t.Destination,
		t.DepartureTime.Format(DateLayout), t.ArrivalTime.Format(DateLayout),
		t.Transporter, t.AvailableSeats)
}
