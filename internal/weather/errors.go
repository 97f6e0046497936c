package weather

import "errors"

var (
	// ErrForecastFetch wraps any failure of the forecast call.
	ErrForecastFetch = errors.New("forecast fetch failed")
	// ErrMalformedResponse is returned when a provider payload is missing
	// required fields or cannot be decoded.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrNoLocation is returned when a dashboard is requested before any
	// location has been resolved.
	ErrNoLocation = errors.New("no location selected")
	// ErrUnknownShortcut is returned for a shortcut outside the popular list.
	ErrUnknownShortcut = errors.New("unknown popular city")
	// ErrSuperseded is returned when a newer interaction on the same
	// session started before this one could be saved.
	ErrSuperseded = errors.New("superseded by a newer request")
)
