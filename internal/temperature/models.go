package temperature

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrInvalidDataset is returned when a decoded document does not describe a usable dataset.
var ErrInvalidDataset = errors.New("invalid temperature dataset")

// Record is one month of variance from the base temperature.
type Record struct {
	Year     int     `json:"year" validate:"gt=0"`
	Month    int     `json:"month" validate:"min=1,max=12"`
	Variance float64 `json:"variance"`
}

// MonthIndex returns the zero-based month (January = 0).
func (r Record) MonthIndex() int {
	return r.Month - 1
}

// Dataset is the global monthly temperature document.
// It is treated as immutable once loaded.
type Dataset struct {
	BaseTemperature float64  `json:"baseTemperature"`
	Records         []Record `json:"monthlyVariance" validate:"required,min=1,dive"`
}

// Temperature returns the absolute temperature of r relative to this dataset.
func (d Dataset) Temperature(r Record) float64 {
	return d.BaseTemperature + r.Variance
}

// TemperatureRange returns the minimum and maximum absolute temperatures.
// Both are zero when the dataset has no records.
func (d Dataset) TemperatureRange() (lo, hi float64) {
	for i, r := range d.Records {
		t := d.Temperature(r)
		if i == 0 || t < lo {
			lo = t
		}
		if i == 0 || t > hi {
			hi = t
		}
	}
	return lo, hi
}

// YearRange returns the first and last year present in the dataset.
func (d Dataset) YearRange() (first, last int) {
	for i, r := range d.Records {
		if i == 0 || r.Year < first {
			first = r.Year
		}
		if i == 0 || r.Year > last {
			last = r.Year
		}
	}
	return first, last
}

// Validate checks structural invariants of the dataset.
func (d Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return nil
}

// DecodeDataset reads a JSON dataset from r and validates it.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var raw struct {
		BaseTemperature *float64 `json:"baseTemperature"`
		Records         []Record `json:"monthlyVariance"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if raw.BaseTemperature == nil {
		return Dataset{}, fmt.Errorf("%w: missing baseTemperature", ErrInvalidDataset)
	}

	ds := Dataset{
		BaseTemperature: *raw.BaseTemperature,
		Records:         raw.Records,
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// Snapshot is a dataset as it was loaded from a source at a point in time.
type Snapshot struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"` // always UTC
	Dataset   Dataset   `json:"dataset"`
}

// SnapshotInfo is the metadata of a snapshot without its records.
type SnapshotInfo struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	FetchedAt       time.Time `json:"fetchedAt"`
	BaseTemperature float64   `json:"baseTemperature"`
	Records         int       `json:"records"`
	FirstYear       int       `json:"firstYear"`
	LastYear        int       `json:"lastYear"`
}

// Info summarises the snapshot.
func (s Snapshot) Info() SnapshotInfo {
	first, last := s.Dataset.YearRange()
	return SnapshotInfo{
		ID:              s.ID,
		Source:          s.Source,
		FetchedAt:       s.FetchedAt,
		BaseTemperature: s.Dataset.BaseTemperature,
		Records:         len(s.Dataset.Records),
		FirstYear:       first,
		LastYear:        last,
	}
}
