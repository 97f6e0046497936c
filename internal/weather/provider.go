package weather

import (
	"context"
	"time"
)

// ForecastRequest carries the parameters of a single forecast call.
type ForecastRequest struct {
	// Query is a canonical location: "lat,lon" or a place name.
	Query string
	// Days is the forecast horizon; the dashboard always asks for one day.
	Days int
	// AirQuality asks the provider to include PM2.5 readings.
	AirQuality bool
	// Lang is an optional language code for condition text.
	Lang string
}

// ForecastProvider abstracts the forecast endpoint (e.g. WeatherAPI.com).
type ForecastProvider interface {
	Name() string
	Forecast(ctx context.Context, req ForecastRequest) (Snapshot, error)
}

// SessionStore is the contract the in-memory and Valkey session stores satisfy.
//
// Begin returns the current session together with a fresh ticket; Commit
// saves the state only if no later ticket was issued in the meantime.
// Touch marks the session as active without changing its state.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Begin(ctx context.Context, id string) (Session, uint64, error)
	Commit(ctx context.Context, session Session, ticket uint64) error
	Prune(ctx context.Context, now time.Time) (int, error)
}
