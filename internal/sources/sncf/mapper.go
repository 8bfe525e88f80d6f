package sncf

import (
	"fmt"
	"time"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
)

// Mapper converts provider payloads to domain tickets
type Mapper struct {
	loc *time.Location
}

// NewMapper creates a mapper interpreting naive provider datetimes in loc
func NewMapper(loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.Local
	}
	return &Mapper{loc: loc}
}

// MapTickets converts a whole search response. A single malformed offer
// fails the batch: a partial result would look like seats disappearing.
func (m *Mapper) MapTickets(resp SearchResponse) ([]domain.Ticket, error) {
	tickets := make([]domain.Ticket, 0, len(resp))
	for i, p := range resp {
		ticket, err := m.MapTicket(p)
		if err != nil {
			return nil, fmt.Errorf("offer %d: %w", i, err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// MapTicket converts a single offer
func (m *Mapper) MapTicket(p TicketPayload) (domain.Ticket, error) {
	departure, err := time.ParseInLocation(wireDateLayout, p.DepartureDateTime, m.loc)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("invalid departureDateTime %q: %w", p.DepartureDateTime, err)
	}
	arrival, err := time.ParseInLocation(wireDateLayout, p.ArrivalDateTime, m.loc)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("invalid arrivalDateTime %q: %w", p.ArrivalDateTime, err)
	}
	if p.AvailableSeatsCount < 0 {
		return domain.Ticket{}, fmt.Errorf("negative availableSeatsCount %d", p.AvailableSeatsCount)
	}

	return domain.Ticket{
		Origin:         p.OriginName,
		Destination:    p.DestinationName,
		DepartureTime:  departure,
		ArrivalTime:    arrival,
		Transporter:    p.Axe,
		TrainID:        string(p.Train),
		AvailableSeats: p.AvailableSeatsCount,
	}, nil
}

// formatWireDate renders t in the provider's naive layout, in loc
func (m *Mapper) formatWireDate(t time.Time) string {
	return t.In(m.loc).Format(wireDateLayout)
}
