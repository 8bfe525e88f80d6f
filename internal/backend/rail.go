package backend

import (
	"context"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
	"github.com/JRomainG/TGVMaxBot/internal/notify"
)

// Fetcher returns the current offers for a trip
type Fetcher interface {
	Fetch(ctx context.Context, trip *domain.Trip) []domain.Ticket
}

// Rail is the TGVmax backend: SNCF availability search, delivered to a chat.
type Rail struct {
	fetcher Fetcher
	sink    notify.Sink
}

func NewRail(fetcher Fetcher, sink notify.Sink) *Rail {
	return &Rail{fetcher: fetcher, sink: sink}
}

func (r *Rail) Name() string { return "sncf" }

func (r *Rail) Fetch(ctx context.Context, trip *domain.Trip) []domain.Ticket {
	return r.fetcher.Fetch(ctx, trip)
}

func (r *Rail) Matches(trip *domain.Trip, ticket domain.Ticket) bool {
	return trip.Matches(ticket)
}

// Notify sends a single message listing every ticket
func (r *Rail) Notify(ctx context.Context, req domain.Request, trip *domain.Trip, tickets []domain.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	text := notify.FormatTickets(trip, tickets)
	return r.sink.Send(ctx, req.ChatID, text, notify.SendOptions{Silent: req.Silent})
}
