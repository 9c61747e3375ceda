package model

import (
	"math"
	"time"
)

const (
	WeightUnitKg = "kg"
	WeightUnitLb = "lb"

	MinWeightKg = 20.0
	MaxWeightKg = 500.0

	// trendAlpha is the smoothing factor of the weight trend line.
	trendAlpha = 0.1
)

type WeightLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"-"`
	LogDate    string    `db:"log_date" json:"log_date"`
	WeightKg   float64   `db:"weight_kg" json:"weight_kg"`
	BodyFatPct *float64  `db:"body_fat_pct" json:"body_fat_pct,omitempty"`
	Note       string    `db:"note" json:"note"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	TrendKg float64 `db:"-" json:"trend_kg"`
}

// WeightToKg converts a weight in kg or lb to kg.
func WeightToKg(value float64, unit string) (float64, error) {
	switch unit {
	case WeightUnitKg, "":
		return round2(value), nil
	case WeightUnitLb:
		return round2(value * 0.45359237), nil
	default:
		return 0, ErrUnknownUnit
	}
}

// ApplyTrend sets TrendKg on logs sorted by date ascending using exponential
// smoothing seeded with the first value.
func ApplyTrend(logs []*WeightLog) {
	var trend float64
	for i, l := range logs {
		if i == 0 {
			trend = l.WeightKg
		} else {
			trend += trendAlpha * (l.WeightKg - trend)
		}
		l.TrendKg = round2(trend)
	}
}

type WeightStats struct {
	Days     int        `json:"days"`
	Count    int        `json:"count"`
	Latest   *WeightLog `json:"latest,omitempty"`
	MinKg    float64    `json:"min_kg"`
	MaxKg    float64    `json:"max_kg"`
	ChangeKg float64    `json:"change_kg"`
}

// NewWeightStats summarises logs sorted by date ascending.
func NewWeightStats(days int, logs []*WeightLog) *WeightStats {
	stats := &WeightStats{Days: days, Count: len(logs)}
	if len(logs) == 0 {
		return stats
	}

	stats.MinKg = math.Inf(1)
	stats.MaxKg = math.Inf(-1)
	for _, l := range logs {
		stats.MinKg = math.Min(stats.MinKg, l.WeightKg)
		stats.MaxKg = math.Max(stats.MaxKg, l.WeightKg)
	}
	stats.Latest = logs[len(logs)-1]
	stats.ChangeKg = round2(stats.Latest.WeightKg - logs[0].WeightKg)
	return stats
}
