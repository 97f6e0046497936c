package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/weather-dashboard/internal/location"
)

// PresenterConfig controls how forecasts are requested and rendered.
type PresenterConfig struct {
	Lang       string
	MapBaseURL string
}

// Presenter fetches a forecast for a canonical location and derives the dashboard.
type Presenter struct {
	provider ForecastProvider
	cfg      PresenterConfig
	now      func() time.Time
}

// NewPresenter creates a Presenter.
func NewPresenter(provider ForecastProvider, cfg PresenterConfig) *Presenter {
	return &Presenter{
		provider: provider,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Present performs one forecast call and derives all display values. On
// any failure no partial dashboard is returned; the error matches
// ErrForecastFetch and, for bad payloads, ErrMalformedResponse.
func (p *Presenter) Present(ctx context.Context, canonical location.Canonical) (Dashboard, error) {
	query := canonical.Query()
	if query == "" {
		return Dashboard{}, ErrNoLocation
	}
	if p.provider == nil {
		return Dashboard{}, fmt.Errorf("%w: no forecast provider configured", ErrForecastFetch)
	}

	snap, err := p.provider.Forecast(ctx, ForecastRequest{
		Query:      query,
		Days:       1,
		AirQuality: true,
		Lang:       p.cfg.Lang,
	})
	if err != nil {
		log.Printf("ERROR: provider %s forecast failed for %s: %v", p.provider.Name(), query, err)
		if errors.Is(err, ErrForecastFetch) {
			return Dashboard{}, err
		}
		return Dashboard{}, fmt.Errorf("%w: %w", ErrForecastFetch, err)
	}

	dash, err := BuildDashboard(query, snap, p.cfg.MapBaseURL, p.now())
	if err != nil {
		return Dashboard{}, fmt.Errorf("%w: %w", ErrForecastFetch, err)
	}
	return dash, nil
}
