package heatmap

import (
	"math"
	"sort"
)

// BandScale maps discrete integer keys to contiguous, equal-width ranges.
// Padding is applied both between bands and at the outer edges, and the
// bands are centred within the range.
type BandScale struct {
	domain    []int
	index     map[int]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale builds a band scale over the given keys. Duplicate keys are
// collapsed and the domain is sorted ascending.
func NewBandScale(keys []int, r0, r1, padding float64) *BandScale {
	index := make(map[int]int, len(keys))
	domain := make([]int, 0, len(keys))
	for _, k := range keys {
		if _, ok := index[k]; ok {
			continue
		}
		index[k] = 0
		domain = append(domain, k)
	}
	sort.Ints(domain)
	for i, k := range domain {
		index[k] = i
	}

	padding = math.Max(0, math.Min(1, padding))
	n := float64(len(domain))
	span := r1 - r0
	step := span / math.Max(1, n-padding+2*padding)
	start := r0 + (span-step*(n-padding))*0.5

	return &BandScale{
		domain:    domain,
		index:     index,
		start:     start,
		step:      step,
		bandwidth: step * (1 - padding),
	}
}

// Position returns the start of the band for key.
func (s *BandScale) Position(key int) (float64, bool) {
	i, ok := s.index[key]
	if !ok {
		return 0, false
	}
	return s.start + s.step*float64(i), true
}

// Center returns the midpoint of the band for key.
func (s *BandScale) Center(key int) (float64, bool) {
	p, ok := s.Position(key)
	if !ok {
		return 0, false
	}
	return p + s.bandwidth/2, true
}

// Bandwidth is the width of every band.
func (s *BandScale) Bandwidth() float64 {
	return s.bandwidth
}

// Step is the distance between the starts of adjacent bands.
func (s *BandScale) Step() float64 {
	return s.step
}

// Domain returns a copy of the sorted keys.
func (s *BandScale) Domain() []int {
	return append([]int(nil), s.domain...)
}

// SequentialScale maps a continuous domain onto a Ramp.
// The domain may be inverted (d0 > d1); d0 always maps to the start of the ramp.
type SequentialScale struct {
	d0, d1 float64
	ramp   Ramp
}

func NewSequentialScale(d0, d1 float64, ramp Ramp) *SequentialScale {
	return &SequentialScale{d0: d0, d1: d1, ramp: ramp}
}

// Domain returns the two domain endpoints in the order they were given.
func (s *SequentialScale) Domain() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// Normalize returns the ramp parameter for v, clamped to [0,1].
// A degenerate domain maps every value to the middle of the ramp.
func (s *SequentialScale) Normalize(v float64) float64 {
	if s.d0 == s.d1 {
		return 0.5
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return math.Max(0, math.Min(1, t))
}

// Color returns the hex colour for v.
func (s *SequentialScale) Color(v float64) string {
	return s.ramp.At(s.Normalize(v))
}
