package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/cities/popular", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"cities": service.PopularCities()})
	})

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		q := c.Query("q")
		if err := validate.Var(q, "required,max=200"); err != nil {
			return badRequest(errors.New("q query parameter is required"))
		}
		candidates, err := service.SearchLocations(c.UserContext(), q)
		if err != nil {
			return domainError(err)
		}
		return c.JSON(fiber.Map{
			"query":      q,
			"candidates": toCandidateViews(candidates),
		})
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q := c.Query("q")
		if err := validate.Var(q, "required,max=200"); err != nil {
			return badRequest(errors.New("q query parameter is required"))
		}
		dash, err := service.DashboardFor(c.UserContext(), q)
		if err != nil {
			return domainError(err)
		}
		return c.JSON(dash)
	})

	sessions := v1.Group("/sessions")

	sessions.Post("/", func(c *fiber.Ctx) error {
		session, err := service.NewSession(c.UserContext())
		if err != nil {
			return domainError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toSessionView(session))
	})

	sessions.Get("/:id", func(c *fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		session, err := service.Session(c.UserContext(), id)
		if err != nil {
			return domainError(err)
		}
		return c.JSON(toSessionView(session))
	})

	sessions.Post("/:id/search", func(c *fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		var req searchRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		session, err := service.Search(c.UserContext(), id, req.Query)
		return respondSession(c, session, err)
	})

	sessions.Post("/:id/shortcut", func(c *fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		var req shortcutRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		session, err := service.PickShortcut(c.UserContext(), id, req.City)
		return respondSession(c, session, err)
	})

	sessions.Post("/:id/gps", func(c *fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		var req gpsRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		session, err := service.ReportGPS(c.UserContext(), id, req.toFix())
		return respondSession(c, session, err)
	})

	sessions.Post("/:id/select", func(c *fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		var req selectRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		session, err := service.SelectCandidate(c.UserContext(), id, *req.Index)
		return respondSession(c, session, err)
	})

	sessions.Get("/:id/dashboard", func(c *fiber.Ctx) error {
		id, err := sessionID(c)
		if err != nil {
			return err
		}
		dash, err := service.Dashboard(c.UserContext(), id)
		if err != nil {
			return domainError(err)
		}
		return c.JSON(dash)
	})
}

// respondSession writes the session, or the mapped error. A search that
// found nothing is reported as an error even though the session changed.
func respondSession(c *fiber.Ctx, session weather.Session, err error) error {
	if err != nil {
		return domainError(err)
	}
	return c.JSON(toSessionView(session))
}

type searchRequest struct {
	Query string `json:"query" validate:"required,max=200"`
}

type shortcutRequest struct {
	City string `json:"city" validate:"required,max=100"`
}

// gpsRequest carries the browser geolocation outcome: either both
// coordinates, or neither plus an optional error text.
type gpsRequest struct {
	Lat   *float64 `json:"lat" validate:"required_with=Lon"`
	Lon   *float64 `json:"lon" validate:"required_with=Lat"`
	Error string   `json:"error" validate:"max=200"`
}

func (r gpsRequest) toFix() location.Fix {
	if r.Lat == nil || r.Lon == nil {
		return location.Fix{Reason: r.Error}
	}
	return location.Fix{Coordinates: &location.Coordinates{Lat: *r.Lat, Lon: *r.Lon}}
}

type selectRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest(err)
	}
	if err := validate.Struct(out); err != nil {
		return badRequest(err)
	}
	return nil
}

func sessionID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if err := validate.Var(id, "required,uuid"); err != nil {
		return "", badRequest(errors.New("session id must be a uuid"))
	}
	return id, nil
}

type candidateView struct {
	location.Candidate
	Index int    `json:"index"`
	Label string `json:"label"`
}

type canonicalView struct {
	Kind  location.Kind `json:"kind"`
	Query string        `json:"query"`
}

type sessionView struct {
	ID         string          `json:"id"`
	Query      string          `json:"query"`
	Candidates []candidateView `json:"candidates"`
	Selected   int             `json:"selected"`
	Location   *canonicalView  `json:"location"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func toCandidateViews(candidates []location.Candidate) []candidateView {
	out := make([]candidateView, 0, len(candidates))
	for i, c := range candidates {
		out = append(out, candidateView{Candidate: c, Index: i, Label: c.Label()})
	}
	return out
}

func toSessionView(s weather.Session) sessionView {
	v := sessionView{
		ID:         s.ID,
		Query:      s.State.Query,
		Candidates: toCandidateViews(s.State.Candidates),
		Selected:   s.State.Selected,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.State.Canonical != nil {
		v.Location = &canonicalView{Kind: s.State.Canonical.Kind, Query: s.State.Canonical.Query()}
	}
	return v
}
