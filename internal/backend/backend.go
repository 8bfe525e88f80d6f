package backend

import (
	"context"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
)

// Backend is one transport provider: where tickets come from, which of them
// satisfy a trip, and how a user hears about them. Additional providers are
// new implementations of this interface.
type Backend interface {
	// Name identifies the provider in logs.
	Name() string

	// Fetch returns the provider's current offers for the trip.
	// Failures yield an empty result, never an error.
	Fetch(ctx context.Context, trip *domain.Trip) []domain.Ticket

	// Matches reports whether a ticket satisfies the trip's constraints,
	// regardless of seat availability.
	Matches(trip *domain.Trip, ticket domain.Ticket) bool

	// Notify tells the requester about newly available tickets.
	Notify(ctx context.Context, req domain.Request, trip *domain.Trip, tickets []domain.Ticket) error
}
