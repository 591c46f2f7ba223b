package store

import (
	"sync"

	"energy_predictor/internal/model"
	"energy_predictor/internal/report"
)

// AllHours disables the hour-of-day filter.
const AllHours = -1

// Store holds the rows of a prediction artifact in memory, in file order.
type Store struct {
	mu   sync.RWMutex
	rows []model.PredictionRow
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Add appends rows after the ones already held.
func (s *Store) Add(rows []model.PredictionRow) {
	if len(rows) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// Replace swaps the held rows for a fresh set.
func (s *Store) Replace(rows []model.PredictionRow) {
	fresh := make([]model.PredictionRow, len(rows))
	copy(fresh, rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = fresh
}

// Count returns the number of rows held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// TimeRange returns the earliest and latest Datetime held.
// Rows are not sorted, so every row is scanned.
func (s *Store) TimeRange() (model.TimeRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.rows) == 0 {
		return model.TimeRange{}, false
	}

	tr := model.TimeRange{Start: s.rows[0].Datetime, End: s.rows[0].Datetime}
	for _, r := range s.rows[1:] {
		if r.Datetime.Before(tr.Start) {
			tr.Start = r.Datetime
		}
		if r.Datetime.After(tr.End) {
			tr.End = r.Datetime
		}
	}
	return tr, true
}

// Series returns up to limit rows in file order, keeping only rows whose
// hour of day equals hour unless hour is AllHours. limit <= 0 means no limit.
func (s *Store) Series(hour, limit int) []model.PredictionRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.PredictionRow
	for _, r := range s.rows {
		if limit > 0 && len(result) >= limit {
			break
		}
		if hour != AllHours && r.Datetime.Hour() != hour {
			continue
		}
		result = append(result, r)
	}
	return result
}

// HourlyAverages returns the mean Actual reading per hour of day.
// Hours without rows are 0. With hour set, every other hour is 0.
func (s *Store) HourlyAverages(hour int) [24]float64 {
	var avg [24]float64
	for _, st := range s.hourly() {
		if hour != AllHours && st.Hour != hour {
			continue
		}
		avg[st.Hour] = st.Actual
	}
	return avg
}

// HourlyError returns the mean absolute prediction error per hour of day.
func (s *Store) HourlyError() [24]float64 {
	var mae [24]float64
	for _, st := range s.hourly() {
		mae[st.Hour] = st.MAE
	}
	return mae
}

func (s *Store) hourly() [24]report.HourlyStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return report.Hourly(s.rows)
}
