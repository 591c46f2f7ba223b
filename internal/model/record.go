package model

import "time"

// Input column names of the household power consumption table.
const (
	ColumnDate  = "Date"
	ColumnTime  = "Time"
	ColumnPower = "Global_active_power"
)

// Output column names of the prediction artifact.
const (
	ColumnDatetime  = "Datetime"
	ColumnActual    = "Actual"
	ColumnPredicted = "Predicted"
)

// DatetimeLayout is the layout used when writing Datetime values.
const DatetimeLayout = "2006-01-02 15:04:05"

// FeatureNames lists the feature columns in the order returned by FeatureVector.Values.
var FeatureNames = []string{"Hour", "Day", "Month", "Weekday"}

// RawRecord is one row of the input table as loaded from disk.
type RawRecord struct {
	Line    int // 1-based line number in the source file
	Date    string
	Time    string
	Power   float64
	Missing bool // Power was absent or a missing-value token
}

// TimestampedRecord is a RawRecord with Date and Time combined into one instant.
type TimestampedRecord struct {
	RawRecord
	Datetime time.Time
}

// FeatureVector holds the calendar features derived from a Datetime.
type FeatureVector struct {
	Hour    int // 0-23
	Day     int // 1-31
	Month   int // 1-12
	Weekday int // 0-6, Monday=0
}

// Values returns the features as a float row in FeatureNames order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		float64(f.Hour),
		float64(f.Day),
		float64(f.Month),
		float64(f.Weekday),
	}
}

// PredictionRow is one row of the prediction artifact.
type PredictionRow struct {
	Datetime  time.Time
	Actual    float64
	Predicted float64
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}
