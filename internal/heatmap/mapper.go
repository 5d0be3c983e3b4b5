// Package heatmap turns a temperature dataset into the positions, sizes and
// colours of a year-by-month heat map.
package heatmap

import (
	"errors"
	"fmt"

	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

var (
	// ErrNoRecords is returned when there is nothing to draw.
	ErrNoRecords = errors.New("dataset has no records")
	// ErrMonthOutOfRange is returned for a record whose month is not in [1,12].
	ErrMonthOutOfRange = errors.New("month out of range")
	// ErrInvalidLayout is returned when the drawing area has no room for cells.
	ErrInvalidLayout = errors.New("invalid layout")
)

// Margin is the space between the outer edge of the chart and the plot area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Layout holds the fixed geometry of the chart.
type Layout struct {
	Width        float64 `json:"width"`  // outer width of the plot frame
	Height       float64 `json:"height"` // outer height of the plot frame
	Margin       Margin  `json:"margin"`
	Padding      float64 `json:"padding"`
	LegendWidth  float64 `json:"legendWidth"`
	LegendHeight float64 `json:"legendHeight"`
	LegendGap    float64 `json:"legendGap"` // space between the x-axis and the legend
	LegendArea   float64 `json:"legendArea"`
}

// DefaultLayout returns the geometry used by the published chart.
func DefaultLayout() Layout {
	return Layout{
		Width:        1200,
		Height:       600,
		Margin:       Margin{Top: 60, Right: 20, Bottom: 60, Left: 80},
		Padding:      0.01,
		LegendWidth:  300,
		LegendHeight: 20,
		LegendGap:    40,
		LegendArea:   60,
	}
}

// WithSize returns a copy of l with a different outer size. Zero values keep the current size.
func (l Layout) WithSize(width, height float64) Layout {
	if width > 0 {
		l.Width = width
	}
	if height > 0 {
		l.Height = height
	}
	return l
}

// InnerWidth is the width available to cells.
func (l Layout) InnerWidth() float64 {
	return l.Width - l.Margin.Left - l.Margin.Right
}

// InnerHeight is the height available to cells.
func (l Layout) InnerHeight() float64 {
	return l.Height - l.Margin.Top - l.Margin.Bottom
}

// TotalHeight is the outer height including the legend block.
func (l Layout) TotalHeight() float64 {
	return l.Height + l.LegendArea
}

// Cell is one rectangle of the heat map together with the record it shows.
type Cell struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   string  `json:"fill"`

	Year        int     `json:"year"`
	Month       int     `json:"month"`
	MonthIndex  int     `json:"monthIndex"`
	Temperature float64 `json:"temperature"`
	Variance    float64 `json:"variance"`
}

// Chart is the full set of drawable primitives for one dataset.
type Chart struct {
	Layout          Layout     `json:"layout"`
	BaseTemperature float64    `json:"baseTemperature"`
	FirstYear       int        `json:"firstYear"`
	LastYear        int        `json:"lastYear"`
	ColorDomain     [2]float64 `json:"colorDomain"` // [warmest, coldest]
	Cells           []Cell     `json:"cells"`
	XTicks          []Tick     `json:"xTicks"`
	YTicks          []Tick     `json:"yTicks"`
	Legend          Legend     `json:"legend"`

	// LegendX and LegendY place the legend relative to the plot area.
	LegendX float64 `json:"legendX"`
	LegendY float64 `json:"legendY"`
}

// Map computes the heat map for ds.
func Map(ds temperature.Dataset, layout Layout) (*Chart, error) {
	if len(ds.Records) == 0 {
		return nil, ErrNoRecords
	}
	if layout.InnerWidth() <= 0 || layout.InnerHeight() <= 0 {
		return nil, fmt.Errorf("%w: inner area %.0fx%.0f", ErrInvalidLayout, layout.InnerWidth(), layout.InnerHeight())
	}

	years := make([]int, 0, len(ds.Records))
	for _, r := range ds.Records {
		if r.Month < 1 || r.Month > 12 {
			return nil, fmt.Errorf("%w: year %d month %d", ErrMonthOutOfRange, r.Year, r.Month)
		}
		years = append(years, r.Year)
	}

	x := NewBandScale(years, 0, layout.InnerWidth(), layout.Padding)
	y := NewBandScale([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 0, layout.InnerHeight(), layout.Padding)

	// Warmest first: the red end of the ramp is the hot end.
	coldest, warmest := ds.TemperatureRange()
	color := NewSequentialScale(warmest, coldest, RdYlBu())

	cells := make([]Cell, len(ds.Records))
	for i, r := range ds.Records {
		temp := ds.Temperature(r)
		cx, _ := x.Position(r.Year)
		cy, _ := y.Position(r.MonthIndex())
		cells[i] = Cell{
			X:           cx,
			Y:           cy,
			Width:       x.Bandwidth(),
			Height:      y.Bandwidth(),
			Fill:        color.Color(temp),
			Year:        r.Year,
			Month:       r.Month,
			MonthIndex:  r.MonthIndex(),
			Temperature: temp,
			Variance:    r.Variance,
		}
	}

	first, last := ds.YearRange()

	return &Chart{
		Layout:          layout,
		BaseTemperature: ds.BaseTemperature,
		FirstYear:       first,
		LastYear:        last,
		ColorDomain:     color.Domain(),
		Cells:           cells,
		XTicks:          yearTicks(x),
		YTicks:          monthTicks(y),
		Legend:          buildLegend(color, layout.LegendWidth, layout.LegendHeight),
		LegendX:         0,
		LegendY:         layout.InnerHeight() + layout.LegendGap,
	}, nil
}
