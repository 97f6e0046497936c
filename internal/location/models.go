package location

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the pair lies within the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String renders the pair as "lat,lon", keeping at least one decimal
// digit so that 127 is written as "127.0".
func (c Coordinates) String() string {
	return formatDegrees(c.Lat) + "," + formatDegrees(c.Lon)
}

func formatDegrees(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Candidate is one search result offered for disambiguation.
type Candidate struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Label is the "name, region, country" text shown in the picker.
func (c Candidate) Label() string {
	return fmt.Sprintf("%s, %s, %s", c.Name, c.Region, c.Country)
}

// Coordinates returns the candidate position.
func (c Candidate) Coordinates() Coordinates {
	return Coordinates{Lat: c.Lat, Lon: c.Lon}
}

// Kind distinguishes the two forms a canonical location can take.
type Kind string

const (
	KindCoordinates Kind = "coordinates"
	KindName        Kind = "name"
)

// Canonical is the resolved location used as the forecast query.
// Exactly one of Coordinates or Name is meaningful, selected by Kind.
type Canonical struct {
	Kind        Kind        `json:"kind"`
	Coordinates Coordinates `json:"coordinates"`
	Name        string      `json:"name,omitempty"`
}

// FromCoordinates builds a coordinate-pair canonical location.
func FromCoordinates(c Coordinates) Canonical {
	return Canonical{Kind: KindCoordinates, Coordinates: c}
}

// FromName builds a place-name canonical location.
func FromName(name string) Canonical {
	return Canonical{Kind: KindName, Name: strings.TrimSpace(name)}
}

// Query returns the value sent to the forecast service.
func (c Canonical) Query() string {
	if c.Kind == KindName {
		return c.Name
	}
	return c.Coordinates.String()
}

// Fix is the outcome of a geolocation request made by the client.
// A nil Coordinates means the platform denied or failed to provide a fix;
// Reason optionally carries the platform's explanation.
type Fix struct {
	Coordinates *Coordinates
	Reason      string
}

// NoSelection marks a State whose candidate list has no chosen entry.
const NoSelection = -1

// State is the per-session resolution state. Values are treated as
// immutable: every transition returns a fresh State.
type State struct {
	Query      string      `json:"query"`
	Candidates []Candidate `json:"candidates"`
	Selected   int         `json:"selected"`
	Canonical  *Canonical  `json:"canonical,omitempty"`
}

// NewState returns the empty state of a fresh session.
func NewState() State {
	return State{Selected: NoSelection}
}

// HasLocation reports whether a canonical location is active.
func (s State) HasLocation() bool {
	return s.Canonical != nil
}

// clone copies the slice and pointer fields so callers never share
// backing storage between states.
func (s State) clone() State {
	out := s
	if s.Candidates != nil {
		out.Candidates = append([]Candidate(nil), s.Candidates...)
	}
	if s.Canonical != nil {
		c := *s.Canonical
		out.Canonical = &c
	}
	return out
}
