package ws

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"energy_predictor/internal/model"
	"energy_predictor/internal/store"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeFilterHour = "filter:hour"

	// Server -> Client
	TypeDataLoaded  = "data:loaded"
	TypeChartSeries = "chart:series"
	TypeChartHourly = "chart:hourly"
)

const hourAll = "all"

// Client -> Server messages

// FilterHourPayload selects one hour of day. Hour is "all", a number 0-23,
// or that number as a string.
type FilterHourPayload struct {
	Hour json.RawMessage `json:"hour"`
}

// ParseHour resolves the requested hour to 0-23 or store.AllHours.
func (p FilterHourPayload) ParseHour() (int, error) {
	raw := strings.TrimSpace(string(p.Hour))
	if raw == "" || raw == "null" {
		return store.AllHours, nil
	}

	var s string
	if err := json.Unmarshal(p.Hour, &s); err == nil {
		raw = strings.TrimSpace(s)
	}
	if raw == hourAll {
		return store.AllHours, nil
	}

	h, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid hour %s", string(p.Hour))
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("hour %d out of range 0-23", h)
	}
	return h, nil
}

// Server -> Client messages

type TimeRangeInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DataLoadedPayload struct {
	Rows      int           `json:"rows"`
	TimeRange TimeRangeInfo `json:"time_range"`
}

type PointInfo struct {
	Datetime  string  `json:"datetime"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

type ChartSeriesPayload struct {
	Hour   string      `json:"hour"`
	Points []PointInfo `json:"points"`
}

type ChartHourlyPayload struct {
	Hour     string      `json:"hour"`
	Averages [24]float64 `json:"averages"`
	MAE      [24]float64 `json:"mae"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// HourLabel renders an hour filter the way clients send it.
func HourLabel(hour int) string {
	if hour == store.AllHours {
		return hourAll
	}
	return strconv.Itoa(hour)
}

func TimeRangeFromModel(tr model.TimeRange) TimeRangeInfo {
	return TimeRangeInfo{
		Start: tr.Start.Format(time.RFC3339),
		End:   tr.End.Format(time.RFC3339),
	}
}

func PointsFromRows(rows []model.PredictionRow) []PointInfo {
	points := make([]PointInfo, len(rows))
	for i, r := range rows {
		points[i] = PointInfo{
			Datetime:  r.Datetime.Format(model.DatetimeLayout),
			Actual:    r.Actual,
			Predicted: r.Predicted,
		}
	}
	return points
}
