package notify

import (
	"fmt"
	"strings"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
)

// FormatTickets builds the message announcing newly available tickets for a trip
func FormatTickets(trip *domain.Trip, tickets []domain.Ticket) string {
	var sb strings.Builder

	if len(tickets) == 1 {
		sb.WriteString("New ticket available!\n")
	} else {
		fmt.Fprintf(&sb, "%d new tickets available!\n", len(tickets))
	}
	sb.WriteString(trip.String())
	sb.WriteString("\n\n")

	for _, t := range tickets {
		sb.WriteString("- ")
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
