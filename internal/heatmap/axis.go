package heatmap

import (
	"strconv"
	"time"
)

// Tick is a labelled position along an axis.
type Tick struct {
	Value    int     `json:"value"`
	Label    string  `json:"label"`
	Position float64 `json:"position"`
}

// YearTickInterval is the spacing of labelled years on the horizontal axis.
const YearTickInterval = 10

// MonthName returns the English name of a zero-based month index.
func MonthName(monthIndex int) string {
	return time.Month(monthIndex + 1).String()
}

// yearTicks labels every year of the band domain divisible by YearTickInterval.
func yearTicks(x *BandScale) []Tick {
	var ticks []Tick
	for _, year := range x.domain {
		if year%YearTickInterval != 0 {
			continue
		}
		pos, _ := x.Center(year)
		ticks = append(ticks, Tick{
			Value:    year,
			Label:    strconv.Itoa(year),
			Position: pos,
		})
	}
	return ticks
}

// monthTicks labels all twelve months, January first.
func monthTicks(y *BandScale) []Tick {
	ticks := make([]Tick, 0, len(y.domain))
	for _, m := range y.domain {
		pos, _ := y.Center(m)
		ticks = append(ticks, Tick{
			Value:    m,
			Label:    MonthName(m),
			Position: pos,
		})
	}
	return ticks
}
