package sncf

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// wireDateLayout is the naive datetime layout used by the provider.
const wireDateLayout = "2006-01-02T15:04:05"

// SearchResponse is the body of an availability search: a flat array of offers.
type SearchResponse []TicketPayload

// TicketPayload mirrors one offer of the availability search.
type TicketPayload struct {
	OriginName          string     `json:"originName"`
	DestinationName     string     `json:"destinationName"`
	DepartureDateTime   string     `json:"departureDateTime"`
	ArrivalDateTime     string     `json:"arrivalDateTime"`
	Axe                 string     `json:"axe"`
	Train               flexString `json:"train"`
	AvailableSeatsCount int        `json:"availableSeatsCount"`
}

// StationsResponse is the body of the station list endpoints.
type StationsResponse []string

// flexString accepts both JSON strings and numbers; train numbers
// have been served as either.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
