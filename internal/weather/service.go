package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/location"
)

// Service orchestrates sessions, location resolution and presentation.
// Each exported interaction handler maps to one user action.
type Service struct {
	store     SessionStore
	resolver  *location.Resolver
	presenter *Presenter
	popular   []string
	now       func() time.Time
}

// NewService creates a new Service.
func NewService(store SessionStore, resolver *location.Resolver, presenter *Presenter, popular []string) *Service {
	return &Service{
		store:     store,
		resolver:  resolver,
		presenter: presenter,
		popular:   popular,
		now:       time.Now,
	}
}

// PopularCities returns the configured shortcut list.
func (s *Service) PopularCities() []string {
	return append([]string(nil), s.popular...)
}

// NewSession starts a session with no resolved location.
func (s *Service) NewSession(ctx context.Context) (Session, error) {
	session := Session{
		ID:        uuid.NewString(),
		State:     location.NewState(),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, session); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	log.Printf("DEBUG: session %s created", session.ID)
	return session, nil
}

// Session returns the stored session. Reading counts as activity.
func (s *Service) Session(ctx context.Context, id string) (Session, error) {
	if err := s.store.Touch(ctx, id, s.now().UTC()); err != nil {
		return Session{}, err
	}
	return s.store.Get(ctx, id)
}

// Search handles a free-text search submitted for the session.
func (s *Service) Search(ctx context.Context, id, text string) (Session, error) {
	return s.apply(ctx, id, func(st location.State) (location.State, error) {
		return s.resolver.Search(ctx, st, text)
	})
}

// PickShortcut handles a popular-city pick. The city must be in the list.
func (s *Service) PickShortcut(ctx context.Context, id, city string) (Session, error) {
	name, ok := s.lookupPopular(city)
	if !ok {
		return Session{}, fmt.Errorf("%w: %q", ErrUnknownShortcut, city)
	}
	return s.apply(ctx, id, func(st location.State) (location.State, error) {
		return s.resolver.PickShortcut(ctx, st, name)
	})
}

// ReportGPS handles the outcome of a client-side geolocation request.
func (s *Service) ReportGPS(ctx context.Context, id string, fix location.Fix) (Session, error) {
	return s.apply(ctx, id, func(st location.State) (location.State, error) {
		return s.resolver.ReportGPS(st, fix)
	})
}

// SelectCandidate handles the user choosing a disambiguation entry.
func (s *Service) SelectCandidate(ctx context.Context, id string, index int) (Session, error) {
	return s.apply(ctx, id, func(st location.State) (location.State, error) {
		return s.resolver.SelectCandidate(st, index)
	})
}

// Dashboard renders the session's active location.
func (s *Service) Dashboard(ctx context.Context, id string) (Dashboard, error) {
	session, err := s.Session(ctx, id)
	if err != nil {
		return Dashboard{}, err
	}
	if !session.State.HasLocation() {
		return Dashboard{}, ErrNoLocation
	}
	return s.presenter.Present(ctx, *session.State.Canonical)
}

// SearchLocations searches without a session, for clients that keep
// their own state.
func (s *Service) SearchLocations(ctx context.Context, text string) ([]location.Candidate, error) {
	st, err := s.resolver.Search(ctx, location.NewState(), text)
	if err != nil {
		return nil, err
	}
	return st.Candidates, nil
}

// DashboardFor renders a canonical value supplied directly by the client.
func (s *Service) DashboardFor(ctx context.Context, query string) (Dashboard, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Dashboard{}, ErrNoLocation
	}
	return s.presenter.Present(ctx, ParseCanonical(query))
}

// ParseCanonical turns "lat,lon" into a coordinate location and anything
// else into a place name.
func ParseCanonical(q string) location.Canonical {
	lat, lon, ok := strings.Cut(q, ",")
	if ok {
		la, errLat := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		lo, errLon := strconv.ParseFloat(strings.TrimSpace(lon), 64)
		c := location.Coordinates{Lat: la, Lon: lo}
		if errLat == nil && errLon == nil && c.Valid() {
			return location.FromCoordinates(c)
		}
	}
	return location.FromName(q)
}

// apply runs one resolver transition under a session ticket. A transition
// that yields a state together with ErrNoResults is still saved so the
// stale candidate list is cleared.
func (s *Service) apply(ctx context.Context, id string, step func(location.State) (location.State, error)) (Session, error) {
	session, ticket, err := s.store.Begin(ctx, id)
	if err != nil {
		return Session{}, err
	}

	next, stepErr := step(session.State)
	if stepErr != nil && !errors.Is(stepErr, location.ErrNoResults) {
		return session, stepErr
	}

	session.State = next
	session.UpdatedAt = s.now().UTC()
	session.Seq = ticket
	if err := s.store.Commit(ctx, session, ticket); err != nil {
		return Session{}, err
	}
	return session, stepErr
}

func (s *Service) lookupPopular(city string) (string, bool) {
	city = strings.TrimSpace(city)
	for _, p := range s.popular {
		if strings.EqualFold(p, city) {
			return p, true
		}
	}
	return "", false
}
