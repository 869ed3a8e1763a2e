package domain

import "strings"

// Location is a free-form address captured for ride origins, destinations and
// driver positions. Addresses are opaque strings; the system never geocodes
// them, so only equality of the trimmed address matters.
type Location struct {
	Address     string
	Description string
}

// NewLocation creates a location from an address string.
func NewLocation(address string) Location {
	return Location{Address: strings.TrimSpace(address)}
}

// NewLocationWithDescription creates a location with an optional description.
func NewLocationWithDescription(address, description string) Location {
	return Location{
		Address:     strings.TrimSpace(address),
		Description: strings.TrimSpace(description),
	}
}

// Equal reports whether two locations refer to the same address.
// The comparison is case-sensitive.
func (l Location) Equal(other Location) bool {
	return l.Address == other.Address
}

func (l Location) String() string {
	if l.Description == "" {
		return l.Address
	}
	return l.Address + " - " + l.Description
}
