package dataset

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"energy_predictor/internal/model"
)

// DefaultLayouts are tried in order when combining Date and Time.
// Slashed dates are day-first.
var DefaultLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
}

// Dataset is the derived feature table, aligned index-for-index with Records.
type Dataset struct {
	Records  []model.TimestampedRecord
	Features []model.FeatureVector
	Labels   []float64

	// FillValue is the mean of all present readings, used for every missing one.
	FillValue float64
	// Missing is the number of labels that were filled.
	Missing int
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Matrix returns the feature rows at idx, in idx order.
func (d *Dataset) Matrix(idx []int) [][]float64 {
	X := make([][]float64, len(idx))
	for i, j := range idx {
		X[i] = d.Features[j].Values()
	}
	return X
}

// LabelsAt returns the labels at idx, in idx order.
func (d *Dataset) LabelsAt(idx []int) []float64 {
	y := make([]float64, len(idx))
	for i, j := range idx {
		y[i] = d.Labels[j]
	}
	return y
}

// DatetimesAt returns the record instants at idx, in idx order.
func (d *Dataset) DatetimesAt(idx []int) []time.Time {
	ts := make([]time.Time, len(idx))
	for i, j := range idx {
		ts[i] = d.Records[j].Datetime
	}
	return ts
}

// Deriver turns raw records into a Dataset.
type Deriver struct {
	// Layouts for the combined "Date Time" string. Nil means DefaultLayouts.
	Layouts []string
	// Location for layouts without a zone. Nil means UTC.
	Location *time.Location
}

// Derive parses every record's Date and Time, extracts the calendar features
// and fills missing readings with the mean of the present ones.
//
// The fill value is computed over the whole input before any split, so rows
// that end up in the test partition contribute to it.
func (d *Deriver) Derive(records []model.RawRecord) (*Dataset, error) {
	ds := &Dataset{
		Records:  make([]model.TimestampedRecord, len(records)),
		Features: make([]model.FeatureVector, len(records)),
		Labels:   make([]float64, len(records)),
	}

	present := make([]float64, 0, len(records))
	for i, r := range records {
		ts, err := d.parseDatetime(r)
		if err != nil {
			return nil, err
		}
		ds.Records[i] = model.TimestampedRecord{RawRecord: r, Datetime: ts}
		ds.Features[i] = FeaturesAt(ts)
		if r.Missing {
			ds.Missing++
			continue
		}
		ds.Labels[i] = r.Power
		present = append(present, r.Power)
	}

	if ds.Missing == 0 {
		if len(present) > 0 {
			ds.FillValue = stat.Mean(present, nil)
		}
		return ds, nil
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("%w: all %d readings are missing", model.ErrInsufficientData, len(records))
	}

	ds.FillValue = stat.Mean(present, nil)
	for i, r := range records {
		if r.Missing {
			ds.Labels[i] = ds.FillValue
		}
	}
	return ds, nil
}

func (d *Deriver) parseDatetime(r model.RawRecord) (time.Time, error) {
	layouts := d.Layouts
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}

	value := r.Date + " " + r.Time
	var firstErr error
	for _, layout := range layouts {
		ts, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &model.DateTimeParseError{Line: r.Line, Date: r.Date, Time: r.Time, Err: firstErr}
}

// FeaturesAt extracts the calendar features of t.
func FeaturesAt(t time.Time) model.FeatureVector {
	return model.FeatureVector{
		Hour:    t.Hour(),
		Day:     t.Day(),
		Month:   int(t.Month()),
		Weekday: (int(t.Weekday()) + 6) % 7,
	}
}
