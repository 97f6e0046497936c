package location

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	// ErrEmptyQuery is returned when a search is requested with blank text.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrNoResults is returned when the search service finds no candidates.
	ErrNoResults = errors.New("no matching locations found")
	// ErrSearchFailed wraps transport or service failures of the search call.
	ErrSearchFailed = errors.New("location search failed")
	// ErrGeolocationUnavailable is returned when the client could not obtain a fix.
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")
	// ErrInvalidCoordinates is returned for a fix outside the valid ranges.
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	// ErrInvalidCandidate is returned when selecting an index not in the list.
	ErrInvalidCandidate = errors.New("candidate index out of range")
)

// Searcher abstracts a geocode/search endpoint. Implementations return
// candidates in the order the upstream service ranks them.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Options selects between the resolution variants the dashboard supports.
type Options struct {
	// AutoSelectTop picks the first candidate of an explicit search
	// instead of waiting for the user to choose.
	AutoSelectTop bool
	// SelectByName makes a selected candidate resolve to its name rather
	// than its coordinate pair.
	SelectByName bool
}

// Resolver turns user interactions into canonical locations.
type Resolver struct {
	searcher Searcher
	opts     Options
}

// NewResolver creates a Resolver backed by the given search service.
func NewResolver(searcher Searcher, opts Options) *Resolver {
	return &Resolver{searcher: searcher, opts: opts}
}

// Search runs a free-text search. On success the candidate list is
// replaced and the selection reset; the canonical location only changes
// when AutoSelectTop is enabled. When nothing matches, the returned state
// carries the new query with an empty list alongside ErrNoResults.
func (r *Resolver) Search(ctx context.Context, state State, text string) (State, error) {
	return r.search(ctx, state, text, r.opts.AutoSelectTop)
}

// PickShortcut seeds the query with a popular city and searches for it.
// A shortcut never selects a candidate on its own.
func (r *Resolver) PickShortcut(ctx context.Context, state State, city string) (State, error) {
	if strings.TrimSpace(city) == "" {
		return state, nil
	}
	return r.search(ctx, state, city, false)
}

func (r *Resolver) search(ctx context.Context, state State, text string, autoSelect bool) (State, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return state, ErrEmptyQuery
	}

	candidates, err := r.searcher.Search(ctx, query)
	if err != nil {
		log.Printf("location: %s search failed for %q: %v", r.searcher.Name(), query, err)
		return state, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	next := state.clone()
	next.Query = query
	next.Candidates = candidates
	next.Selected = NoSelection

	if len(candidates) == 0 {
		next.Candidates = nil
		return next, ErrNoResults
	}

	if autoSelect {
		return r.SelectCandidate(next, 0)
	}
	return next, nil
}

// ReportGPS applies the client's geolocation outcome. A fix becomes the
// canonical location immediately and clears any pending candidates.
func (r *Resolver) ReportGPS(state State, fix Fix) (State, error) {
	if fix.Coordinates == nil {
		if fix.Reason != "" {
			return state, fmt.Errorf("%w: %s", ErrGeolocationUnavailable, fix.Reason)
		}
		return state, ErrGeolocationUnavailable
	}
	if !fix.Coordinates.Valid() {
		return state, fmt.Errorf("%w: %s", ErrInvalidCoordinates, fix.Coordinates)
	}

	canonical := FromCoordinates(*fix.Coordinates)
	next := state.clone()
	next.Candidates = nil
	next.Selected = NoSelection
	next.Canonical = &canonical
	return next, nil
}

// SelectCandidate resolves the candidate at index into the canonical location.
func (r *Resolver) SelectCandidate(state State, index int) (State, error) {
	if index < 0 || index >= len(state.Candidates) {
		return state, fmt.Errorf("%w: %d of %d", ErrInvalidCandidate, index, len(state.Candidates))
	}

	c := state.Candidates[index]
	canonical := FromCoordinates(c.Coordinates())
	if r.opts.SelectByName {
		canonical = FromName(c.Name)
	}

	next := state.clone()
	next.Selected = index
	next.Canonical = &canonical
	return next, nil
}
