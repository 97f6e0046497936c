package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/location"
)

// geocoderNoResults is the error text kelvins/geocoder reports for a
// ZERO_RESULTS status.
const geocoderNoResults = "No results found."

// GoogleGeocoderProvider implements location.Searcher with the Google
// Geocoding API. Google returns a single best match, so the candidate list
// holds at most one entry, enriched with region/country from a reverse lookup.
type GoogleGeocoderProvider struct {
	name    string
	circuit *gobreaker.CircuitBreaker
	timeout time.Duration

	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleGeocoderProvider configures the geocoder package key. The key
// is process-wide in the underlying library. The library uses its own
// HTTP client without a deadline, so every call is bounded by timeout
// (when > 0) and by the caller's context.
func NewGoogleGeocoderProvider(apiKey string, timeout time.Duration) *GoogleGeocoderProvider {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoderProvider{
		name:    "google",
		circuit: newCircuitBreaker("google-geocoder"),
		timeout: timeout,
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

func (p *GoogleGeocoderProvider) Name() string {
	return p.name
}

func (p *GoogleGeocoderProvider) Search(ctx context.Context, query string) ([]location.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := p.circuit.Execute(func() (interface{}, error) {
		v, err := p.await(ctx, func() (interface{}, error) {
			loc, err := p.geocode(geocoder.Address{City: query})
			if err != nil {
				return nil, err
			}
			return &loc, nil
		})
		if err != nil && err.Error() == geocoderNoResults {
			return nil, nil
		}
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s geocode %q: %w", p.name, query, err)
	}

	loc, _ := result.(*geocoder.Location)
	if loc == nil {
		return []location.Candidate{}, nil
	}

	c := location.Candidate{Name: query, Lat: loc.Latitude, Lon: loc.Longitude}
	if !c.Coordinates().Valid() {
		return nil, fmt.Errorf("%s returned out-of-range coordinates %s", p.name, c.Coordinates())
	}

	// Region and country are cosmetic; a failed reverse lookup still
	// yields a selectable candidate.
	v, err := p.await(ctx, func() (interface{}, error) {
		return p.reverse(*loc)
	})
	if addrs, _ := v.([]geocoder.Address); err == nil && len(addrs) > 0 {
		a := addrs[0]
		if a.City != "" {
			c.Name = a.City
		}
		c.Region = a.State
		c.Country = a.Country
	}
	return []location.Candidate{c}, nil
}

// await runs fn in its own goroutine and returns when it finishes, the
// context is done or the provider timeout elapses. A call abandoned on
// timeout finishes in the background and its result is dropped.
func (p *GoogleGeocoderProvider) await(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	type outcome struct {
		value interface{}
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		// The library indexes into its response without length checks.
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%s: unexpected geocoder response: %v", p.name, r)}
			}
		}()
		v, err := fn()
		done <- outcome{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.value, o.err
	}
}

var _ location.Searcher = (*GoogleGeocoderProvider)(nil)
