package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_predictor/internal/model"
	"energy_predictor/internal/store"
)

func TestNewEnvelope(t *testing.T) {
	payload := DataLoadedPayload{
		Rows:      3,
		TimeRange: TimeRangeInfo{Start: "2006-12-16T17:24:00Z", End: "2006-12-16T19:24:00Z"},
	}

	msg, err := NewEnvelope(TypeDataLoaded, payload)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeDataLoaded, env.Type)

	var parsed DataLoadedPayload
	err = json.Unmarshal(env.Payload, &parsed)
	require.NoError(t, err)

	assert.Equal(t, 3, parsed.Rows)
	assert.Equal(t, "2006-12-16T17:24:00Z", parsed.TimeRange.Start)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeFilterHour, nil)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeFilterHour, env.Type)
	assert.Nil(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	c := &Client{
		hub:  hub,
		send: make(chan []byte, 16),
	}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())

	// second unregister is a no-op
	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()

	c1 := &Client{hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{hub: hub, send: make(chan []byte, 16)}

	hub.Register(c1)
	hub.Register(c2)

	msg := []byte(`{"type":"test"}`)
	hub.Broadcast(msg)

	assert.Equal(t, msg, <-c1.send)
	assert.Equal(t, msg, <-c2.send)
}

func TestHub_BroadcastFullBuffer(t *testing.T) {
	hub := NewHub()
	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast([]byte("first"))
	hub.Broadcast([]byte("second"))

	assert.Equal(t, []byte("first"), <-c.send)
	assert.Empty(t, c.send)
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "filter:hour", TypeFilterHour)
	assert.Equal(t, "data:loaded", TypeDataLoaded)
	assert.Equal(t, "chart:series", TypeChartSeries)
	assert.Equal(t, "chart:hourly", TypeChartHourly)
}

func TestFilterHourPayload_ParseHour(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{`"all"`, store.AllHours, false},
		{`null`, store.AllHours, false},
		{``, store.AllHours, false},
		{`0`, 0, false},
		{`23`, 23, false},
		{`"7"`, 7, false},
		{`24`, 0, true},
		{`-1`, 0, true},
		{`"noon"`, 0, true},
		{`1.5`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := FilterHourPayload{Hour: json.RawMessage(tt.raw)}.ParseHour()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHourLabel(t *testing.T) {
	assert.Equal(t, "all", HourLabel(store.AllHours))
	assert.Equal(t, "0", HourLabel(0))
	assert.Equal(t, "17", HourLabel(17))
}

func TestPointsFromRows(t *testing.T) {
	rows := []model.PredictionRow{
		{Datetime: time.Date(2006, 12, 16, 17, 24, 0, 0, time.UTC), Actual: 4.216, Predicted: 3.9},
	}
	points := PointsFromRows(rows)
	require.Len(t, points, 1)
	assert.Equal(t, "2006-12-16 17:24:00", points[0].Datetime)
	assert.Equal(t, 4.216, points[0].Actual)
	assert.Equal(t, 3.9, points[0].Predicted)
}
