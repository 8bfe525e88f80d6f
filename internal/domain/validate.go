package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d+):(\d{2})$`)

// ValidationError reports which trip field was rejected and why.
// The message is meant to be shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TripParams holds the raw values collected by a front-end.
type TripParams struct {
	Origin      string
	Destination string
	MinDate     string // YYYY-MM-DD HH:MM:SS
	MaxDate     string // YYYY-MM-DD HH:MM:SS
	MaxDuration string // H:MM, optional
}

// Stations lists the stations the provider accepts as origin and destination.
// Both lists are sorted.
type Stations struct {
	Origins      []string
	Destinations []string
}

// Empty reports whether no station list is known.
func (s Stations) Empty() bool {
	return len(s.Origins) == 0 && len(s.Destinations) == 0
}

func (s Stations) HasOrigin(name string) bool {
	_, ok := slices.BinarySearch(s.Origins, name)
	return ok
}

func (s Stations) HasDestination(name string) bool {
	_, ok := slices.BinarySearch(s.Destinations, name)
	return ok
}

// ParseDate parses a user supplied date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

// ParseDuration parses "H:MM" (hours may exceed two digits).
func ParseDuration(value string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, fmt.Errorf("duration %q does not match H:MM", value)
	}
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", value, err)
	}
	minutes, _ := strconv.Atoi(m[2])
	if minutes > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", value)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// FormatDuration renders d as "H:MM".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// ValidateTrip applies the front-end rules and builds a Trip.
// Station checks are skipped when stations is empty.
func ValidateTrip(p TripParams, stations Stations, loc *time.Location, now time.Time) (*Trip, error) {
	if !stations.Empty() && !stations.HasOrigin(p.Origin) {
		return nil, &ValidationError{Field: "origin", Message: "Please select a valid station from the list"}
	}
	if p.Origin == "" {
		return nil, &ValidationError{Field: "origin", Message: "Origin station is required"}
	}
	if !stations.Empty() && !stations.HasDestination(p.Destination) {
		return nil, &ValidationError{Field: "destination", Message: "Please select a valid station from the list"}
	}
	if p.Destination == "" {
		return nil, &ValidationError{Field: "destination", Message: "Destination station is required"}
	}
	if p.Destination == p.Origin {
		return nil, &ValidationError{Field: "destination", Message: "Please select a destination different from the origin station"}
	}

	minDate, err := ParseDate(p.MinDate, loc)
	if err != nil {
		return nil, &ValidationError{Field: "min_date", Message: "Please enter a valid date"}
	}
	maxDate, err := ParseDate(p.MaxDate, loc)
	if err != nil {
		return nil, &ValidationError{Field: "max_date", Message: "Please enter a valid date"}
	}
	if maxDate.Before(minDate) {
		return nil, &ValidationError{Field: "max_date", Message: "Latest date must be after earliest date"}
	}
	if !sameDay(minDate, maxDate) {
		// The provider only searches within a single day.
		return nil, &ValidationError{Field: "max_date", Message: "Only same-day trips can be planned"}
	}
	if maxDate.Before(now) {
		return nil, &ValidationError{Field: "max_date", Message: "Latest date cannot be in the past"}
	}

	var maxDuration time.Duration
	if p.MaxDuration != "" {
		maxDuration, err = ParseDuration(p.MaxDuration)
		if err != nil {
			return nil, &ValidationError{Field: "max_duration", Message: "Please enter a valid duration"}
		}
	}

	trip := NewTrip(p.Origin, p.Destination, minDate, maxDate, maxDuration)
	trip.CreatedAt = now
	return trip, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
