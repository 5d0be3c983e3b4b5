package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/temperature-heatmap/internal/heatmap"
	"github.com/i474232898/temperature-heatmap/internal/render"
	"github.com/i474232898/temperature-heatmap/internal/store"
	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

var validate = validator.New()

const refreshTimeout = 30 * time.Second

// Deps are the collaborators the HTTP handlers need.
type Deps struct {
	Service  *temperature.Service
	Renderer *render.Renderer
	Layout   heatmap.Layout
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		chart, snap, err := latestChart(c, deps)
		if err != nil {
			return err
		}
		c.Type("html", "utf-8")
		return deps.Renderer.Page(c, chart, snap.Info())
	})

	v1 := app.Group("/api/v1")

	v1.Get("/heatmap.svg", func(c *fiber.Ctx) error {
		chart, _, err := latestChart(c, deps)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml; charset=utf-8")
		return deps.Renderer.SVG(c, chart)
	})

	v1.Get("/heatmap", func(c *fiber.Ctx) error {
		chart, _, err := latestChart(c, deps)
		if err != nil {
			return err
		}
		return c.JSON(chart)
	})

	v1.Get("/dataset", func(c *fiber.Ctx) error {
		snap, err := deps.Service.GetLatest(c.UserContext())
		if err != nil {
			return snapshotError(err)
		}
		return c.JSON(snap)
	})

	v1.Get("/snapshots", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := deps.Service.GetRange(c.UserContext(), req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no snapshots for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read snapshots")
		}

		infos := make([]temperature.SnapshotInfo, 0, len(snapshots))
		for _, s := range snapshots {
			infos = append(infos, s.Info())
		}

		return c.JSON(fiber.Map{
			"from":      req.From,
			"to":        req.To,
			"snapshots": infos,
		})
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), refreshTimeout)
		defer cancel()

		snap, err := deps.Service.Refresh(ctx)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to refresh temperature dataset: "+err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(snap.Info())
	})
}

// chartQuery holds optional size overrides for chart endpoints.
type chartQuery struct {
	Width  int `query:"width" validate:"omitempty,gte=300,lte=4000"`
	Height int `query:"height" validate:"omitempty,gte=200,lte=3000"`
}

func latestChart(c *fiber.Ctx, deps Deps) (*heatmap.Chart, temperature.Snapshot, error) {
	var q chartQuery
	if err := c.QueryParser(&q); err != nil {
		return nil, temperature.Snapshot{}, fiber.NewError(fiber.StatusBadRequest, "width and height must be integers")
	}
	if err := validate.Struct(q); err != nil {
		return nil, temperature.Snapshot{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	snap, err := deps.Service.GetLatest(c.UserContext())
	if err != nil {
		return nil, temperature.Snapshot{}, snapshotError(err)
	}

	chart, err := heatmap.Map(snap.Dataset, deps.Layout.WithSize(float64(q.Width), float64(q.Height)))
	if err != nil {
		return nil, temperature.Snapshot{}, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return chart, snap, nil
}

func snapshotError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "temperature dataset not loaded yet")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to read temperature dataset")
}

// historyQuery holds query parameters for the snapshots endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
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
