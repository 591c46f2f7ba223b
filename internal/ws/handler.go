package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"energy_predictor/internal/logger"
	"energy_predictor/internal/store"
)

// DefaultMaxPoints is the number of rows sent in a chart:series message.
const DefaultMaxPoints = 50

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler serves dashboard WebSocket connections from a prediction store.
type Handler struct {
	hub       *Hub
	store     *store.Store
	maxPoints int
}

// NewHandler returns a handler serving s; maxPoints <= 0 uses DefaultMaxPoints.
func NewHandler(hub *Hub, s *store.Store, maxPoints int) *Handler {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	return &Handler{hub: hub, store: s, maxPoints: maxPoints}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	h.sendDataLoaded(client)
	h.sendCharts(client, store.AllHours)

	h.readPump(client)
}

// Reload tells every client that the store content changed and resends unfiltered charts.
func (h *Handler) Reload() {
	for _, msg := range h.snapshot(store.AllHours) {
		h.hub.Broadcast(msg)
	}
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(c, msg)
	}
}

func (h *Handler) handleMessage(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		logger.Warnf("Invalid message: %v", err)
		return
	}

	switch env.Type {
	case TypeFilterHour:
		var p FilterHourPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			logger.Warnf("Invalid filter:hour payload: %v", err)
			return
		}
		hour, err := p.ParseHour()
		if err != nil {
			logger.Warnf("Invalid filter:hour payload: %v", err)
			return
		}
		h.sendCharts(c, hour)

	default:
		logger.Warnf("Unknown message type: %s", env.Type)
	}
}

// snapshot builds data:loaded followed by the charts for hour.
func (h *Handler) snapshot(hour int) [][]byte {
	var msgs [][]byte
	if msg, err := h.dataLoadedMessage(); err != nil {
		logger.Errorf("Error creating data:loaded message: %v", err)
	} else {
		msgs = append(msgs, msg)
	}
	return append(msgs, h.chartMessages(hour)...)
}

func (h *Handler) dataLoadedMessage() ([]byte, error) {
	payload := DataLoadedPayload{Rows: h.store.Count()}
	if tr, ok := h.store.TimeRange(); ok {
		payload.TimeRange = TimeRangeFromModel(tr)
	}
	return NewEnvelope(TypeDataLoaded, payload)
}

func (h *Handler) chartMessages(hour int) [][]byte {
	label := HourLabel(hour)

	series, err := NewEnvelope(TypeChartSeries, ChartSeriesPayload{
		Hour:   label,
		Points: PointsFromRows(h.store.Series(hour, h.maxPoints)),
	})
	if err != nil {
		logger.Errorf("Error creating chart:series message: %v", err)
		return nil
	}

	hourly, err := NewEnvelope(TypeChartHourly, ChartHourlyPayload{
		Hour:     label,
		Averages: h.store.HourlyAverages(hour),
		MAE:      h.store.HourlyError(),
	})
	if err != nil {
		logger.Errorf("Error creating chart:hourly message: %v", err)
		return nil
	}

	return [][]byte{series, hourly}
}

func (h *Handler) sendDataLoaded(c *Client) {
	msg, err := h.dataLoadedMessage()
	if err != nil {
		logger.Errorf("Error creating data:loaded message: %v", err)
		return
	}
	c.trySend(msg)
}

func (h *Handler) sendCharts(c *Client, hour int) {
	for _, msg := range h.chartMessages(hour) {
		c.trySend(msg)
	}
}
