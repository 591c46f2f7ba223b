package report

import (
	"math"

	"energy_predictor/internal/model"
)

// HourlyStat aggregates prediction rows falling in one hour of day.
type HourlyStat struct {
	Hour      int
	Count     int
	Actual    float64 // mean actual reading
	Predicted float64 // mean prediction
	MAE       float64
}

// Hourly groups rows by hour of day. All 24 hours are returned; empty hours are zero.
func Hourly(rows []model.PredictionRow) [24]HourlyStat {
	var stats [24]HourlyStat
	for h := range stats {
		stats[h].Hour = h
	}

	for _, r := range rows {
		s := &stats[r.Datetime.Hour()]
		s.Count++
		s.Actual += r.Actual
		s.Predicted += r.Predicted
		s.MAE += math.Abs(r.Actual - r.Predicted)
	}

	for h := range stats {
		if n := float64(stats[h].Count); n > 0 {
			stats[h].Actual /= n
			stats[h].Predicted /= n
			stats[h].MAE /= n
		}
	}
	return stats
}
