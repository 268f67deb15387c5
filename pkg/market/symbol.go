package market

import (
	"fmt"
	"strings"
)

// Venue selects the exchange whose symbol convention applies.
type Venue string

const (
	// VenueB3 is the Brazilian exchange; its tickers carry a ".SA" suffix.
	VenueB3 Venue = "b3"
	// VenueUS covers NYSE/NASDAQ; tickers are bare.
	VenueUS Venue = "us"
)

// b3Suffix is the provider suffix for B3-listed instruments.
const b3Suffix = ".SA"

// ParseVenue maps a user-supplied market identifier to a Venue.
func ParseVenue(s string) (Venue, error) {
	switch Venue(strings.ToLower(strings.TrimSpace(s))) {
	case VenueB3:
		return VenueB3, nil
	case VenueUS:
		return VenueUS, nil
	}
	return "", fmt.Errorf("market: unknown venue %q", s)
}

// Venues lists the supported venues.
func Venues() []Venue {
	return []Venue{VenueB3, VenueUS}
}

// NormalizeSymbol maps a raw user-entered symbol to the provider's expected
// form for the venue: trimmed, uppercased, with the B3 suffix appended or
// stripped as needed. It is pure, total, and idempotent.
func NormalizeSymbol(raw string, venue Venue) string {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	switch venue {
	case VenueB3:
		if !strings.HasSuffix(symbol, b3Suffix) {
			return symbol + b3Suffix
		}
	case VenueUS:
		if strings.HasSuffix(symbol, b3Suffix) {
			return strings.TrimSuffix(symbol, b3Suffix)
		}
	}
	return symbol
}
