package heatmap

// LegendSwatches is the number of colour swatches in the legend, independent of dataset size.
const LegendSwatches = 10

// Swatch is one discrete step of the legend.
type Swatch struct {
	Value float64 `json:"value"` // representative (midpoint) temperature
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Fill  string  `json:"fill"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

// Legend partitions the colour scale into evenly sized swatches from coldest to warmest.
type Legend struct {
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Swatches []Swatch `json:"swatches"`
}

func buildLegend(color *SequentialScale, width, height float64) Legend {
	d := color.Domain()
	lo, hi := d[0], d[1]
	if lo > hi {
		lo, hi = hi, lo
	}

	step := (hi - lo) / LegendSwatches
	w := width / LegendSwatches

	swatches := make([]Swatch, LegendSwatches)
	for i := range swatches {
		low := lo + float64(i)*step
		high := lo + float64(i+1)*step
		if i == LegendSwatches-1 {
			high = hi
		}
		mid := (low + high) / 2
		swatches[i] = Swatch{
			Value: mid,
			Low:   low,
			High:  high,
			Fill:  color.Color(mid),
			X:     float64(i) * w,
			Width: w,
		}
	}

	return Legend{Width: width, Height: height, Swatches: swatches}
}
