package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/agroclim/etref/internal/et"
	"github.com/agroclim/etref/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *et.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/stations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"stations": service.Stations()})
	})

	v1.Get("/eto/latest", func(c *fiber.Ctx) error {
		st, err := stationFromQuery(c, service)
		if err != nil {
			return err
		}

		day, err := service.LatestDaily(st)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no ETo data for requested station")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch ETo data")
		}
		return c.JSON(fiber.Map{"station": st.ID, "daily": day})
	})

	v1.Get("/eto/daily", func(c *fiber.Ctx) error {
		st, req, err := rangeFromQuery(c, service)
		if err != nil {
			return err
		}

		days, err := service.DailyRange(st, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no daily ETo for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch daily ETo")
		}
		return c.JSON(fiber.Map{"station": st.ID, "from": req.From, "to": req.To, "daily": days})
	})

	v1.Get("/eto/hourly", func(c *fiber.Ctx) error {
		st, req, err := rangeFromQuery(c, service)
		if err != nil {
			return err
		}

		estimates, err := service.HourlyRange(st, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no hourly estimates for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch hourly estimates")
		}
		return c.JSON(fiber.Map{"station": st.ID, "from": req.From, "to": req.To, "hourly": estimates})
	})

	v1.Post("/eto/compute", func(c *fiber.Ctx) error {
		var req computeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		hourly, daily := service.Compute(req.Records, req.Site, req.Reference)
		return c.JSON(fiber.Map{"hourly": hourly, "daily": daily})
	})
}

// computeRequest is the body of the ad-hoc computation endpoint.
type computeRequest struct {
	Site      et.Site           `json:"site" validate:"required"`
	Reference et.Reference      `json:"reference" validate:"omitempty,oneof=short tall"`
	Records   []et.HourlyRecord `json:"records" validate:"required,min=1,dive"`
}

func stationFromQuery(c *fiber.Ctx, service *et.Service) (et.Station, error) {
	id := c.Query("station")
	if id == "" {
		return et.Station{}, fiber.NewError(fiber.StatusBadRequest, "station query parameter is required")
	}
	st, ok := service.StationByID(id)
	if !ok {
		return et.Station{}, fiber.NewError(fiber.StatusNotFound, "unknown station")
	}
	return st, nil
}

// rangeQuery holds the time window of the range endpoints.
type rangeQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func rangeFromQuery(c *fiber.Ctx, service *et.Service) (et.Station, rangeQuery, error) {
	var req rangeQuery

	st, err := stationFromQuery(c, service)
	if err != nil {
		return et.Station{}, req, err
	}

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return st, req, fiber.NewError(fiber.StatusBadRequest, "from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return st, req, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	to, err := parseTime(toStr)
	if err != nil {
		return st, req, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	req.From = from
	req.To = to

	if err := validate.Struct(req); err != nil {
		return st, req, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return st, req, nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
