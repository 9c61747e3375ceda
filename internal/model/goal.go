package model

import (
	"math"
	"time"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusAbandoned = "abandoned"

	GoalDailyCalories  = "daily_calories"
	GoalDailyProtein   = "daily_protein"
	GoalTargetWeight   = "target_weight"
	GoalWeeklyWorkouts = "weekly_workouts"
)

var goalUnits = map[string]string{
	GoalDailyCalories:  "kcal",
	GoalDailyProtein:   "g",
	GoalTargetWeight:   "kg",
	GoalWeeklyWorkouts: "workouts",
}

func ValidGoalType(t string) bool {
	_, ok := goalUnits[t]
	return ok
}

func ValidGoalStatus(s string) bool {
	return s == GoalStatusActive || s == GoalStatusCompleted || s == GoalStatusAbandoned
}

type Goal struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"-"`
	Type        string    `db:"type" json:"type"`
	Title       string    `db:"title" json:"title"`
	TargetValue float64   `db:"target_value" json:"target_value"`
	StartValue  *float64  `db:"start_value" json:"start_value,omitempty"`
	StartDate   string    `db:"start_date" json:"start_date"`
	TargetDate  *string   `db:"target_date" json:"target_date,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (g *Goal) Unit() string {
	return goalUnits[g.Type]
}

type GoalProgress struct {
	Goal    *Goal    `json:"goal"`
	Date    string   `json:"date"`
	Current *float64 `json:"current"`
	Percent float64  `json:"percent"`
	Unit    string   `json:"unit"`
	Reached bool     `json:"reached"`
}

// NewGoalProgress computes progress against current. A nil current means no
// data has been logged yet.
func NewGoalProgress(g *Goal, date string, current *float64) *GoalProgress {
	p := &GoalProgress{Goal: g, Date: date, Current: current, Unit: g.Unit()}
	if current == nil {
		return p
	}

	switch g.Type {
	case GoalTargetWeight:
		if g.StartValue == nil || *g.StartValue == g.TargetValue {
			p.Reached = *current == g.TargetValue
			if p.Reached {
				p.Percent = 100
			}
			return p
		}
		start := *g.StartValue
		p.Percent = clampPercent((start - *current) / (start - g.TargetValue) * 100)
		p.Reached = p.Percent >= 100
	default:
		if g.TargetValue > 0 {
			p.Percent = round1(*current / g.TargetValue * 100)
		}
		p.Reached = *current >= g.TargetValue
	}
	return p
}

func clampPercent(v float64) float64 {
	return round1(math.Max(0, math.Min(100, v)))
}
