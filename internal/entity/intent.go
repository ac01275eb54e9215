package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Actions the language model may emit.
const (
	ActionSearch = "search"
	ActionError  = "error"
)

// Sort orders accepted in Parameters.Sort.
const (
	SortRelevance = "relevance"
	SortRating    = "rating"
	SortDistance  = "distance"
)

var openAtPattern = regexp.MustCompile(`^[1-7]T([01][0-9]|2[0-3])[0-5][0-9]$`)

// ErrConflictingAvailability is returned when a payload sets both open_now and open_at.
var ErrConflictingAvailability = errors.New("open_now and open_at are mutually exclusive")

// Intent is the structured interpretation of a free-text restaurant query.
type Intent struct {
	Action     string     `json:"action" validate:"required,oneof=search error"`
	Parameters Parameters `json:"parameters"`
}

// Parameters carries the search filters extracted from a query. Every field is optional.
type Parameters struct {
	Query        *string      `json:"query" validate:"omitempty,max=256"`
	Name         *string      `json:"name" validate:"omitempty,max=256"`
	Near         *string      `json:"near" validate:"omitempty,max=256"`
	MinPrice     *int         `json:"min_price" validate:"omitempty,min=1,max=4"`
	MaxPrice     *int         `json:"max_price" validate:"omitempty,min=1,max=4"`
	Availability Availability `json:"-"`
	Sort         *string      `json:"sort" validate:"omitempty,oneof=relevance rating distance"`
}

// parametersWire is the JSON shape of Parameters.
type parametersWire struct {
	Query    *string `json:"query"`
	Name     *string `json:"name"`
	Near     *string `json:"near"`
	MinPrice *int    `json:"min_price"`
	MaxPrice *int    `json:"max_price"`
	OpenNow  *bool   `json:"open_now"`
	OpenAt   *string `json:"open_at"`
	Sort     *string `json:"sort"`
}

// MarshalJSON flattens the availability variant into the open_now/open_at pair.
func (p Parameters) MarshalJSON() ([]byte, error) {
	wire := parametersWire{
		Query:    p.Query,
		Name:     p.Name,
		Near:     p.Near,
		MinPrice: p.MinPrice,
		MaxPrice: p.MaxPrice,
		Sort:     p.Sort,
	}
	if open, ok := p.Availability.OpenNow(); ok {
		wire.OpenNow = &open
	}
	if at, ok := p.Availability.OpenAt(); ok {
		wire.OpenAt = &at
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes strictly: unknown keys, a malformed open_at code, or both
// availability keys set are rejected.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var wire parametersWire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return err
	}

	availability, err := availabilityFromWire(wire.OpenNow, wire.OpenAt)
	if err != nil {
		return err
	}

	*p = Parameters{
		Query:        wire.Query,
		Name:         wire.Name,
		Near:         wire.Near,
		MinPrice:     wire.MinPrice,
		MaxPrice:     wire.MaxPrice,
		Availability: availability,
		Sort:         wire.Sort,
	}
	return nil
}

func availabilityFromWire(openNow *bool, openAt *string) (Availability, error) {
	switch {
	case openNow != nil && openAt != nil:
		return Availability{}, &AvailabilityError{Field: "open_at", Err: ErrConflictingAvailability}
	case openNow != nil:
		return AvailableNow(*openNow), nil
	case openAt != nil:
		return AvailableAt(*openAt)
	default:
		return Availability{}, nil
	}
}

// AvailabilityKind discriminates the Availability variant.
type AvailabilityKind int

const (
	AvailabilityUnspecified AvailabilityKind = iota
	AvailabilityOpenNow
	AvailabilityOpenAt
)

// Availability is either unspecified, an explicit open-now flag, or an open-at day/time code.
// The zero value is unspecified.
type Availability struct {
	kind    AvailabilityKind
	openNow bool
	openAt  string
}

// AvailableNow filters on whether the venue is currently open.
func AvailableNow(open bool) Availability {
	return Availability{kind: AvailabilityOpenNow, openNow: open}
}

// AvailableAt filters on venues open at a day/time code such as "5T2030"
// (day 1-7, 'T', 24h HHMM).
func AvailableAt(code string) (Availability, error) {
	if !openAtPattern.MatchString(code) {
		return Availability{}, &AvailabilityError{
			Field: "open_at",
			Err:   fmt.Errorf("invalid day/time code %q", code),
		}
	}
	return Availability{kind: AvailabilityOpenAt, openAt: code}, nil
}

// Kind reports which variant is set.
func (a Availability) Kind() AvailabilityKind { return a.kind }

// OpenNow returns the flag and whether the open-now variant is set.
func (a Availability) OpenNow() (bool, bool) {
	return a.openNow, a.kind == AvailabilityOpenNow
}

// OpenAt returns the time code and whether the open-at variant is set.
func (a Availability) OpenAt() (string, bool) {
	return a.openAt, a.kind == AvailabilityOpenAt
}

// AvailabilityError describes an invalid availability payload.
type AvailabilityError struct {
	Field string
	Err   error
}

func (e *AvailabilityError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *AvailabilityError) Unwrap() error { return e.Err }
