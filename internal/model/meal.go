package model

import (
	"time"
)

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealTypes lists meal types in display order.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

func ValidMealType(t string) bool {
	for _, m := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// MealEntry is one logged food, recipe or manual item. Macros are stored as
// computed at write time.
type MealEntry struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	LogDate   string    `db:"log_date" json:"log_date"`
	MealType  string    `db:"meal_type" json:"meal_type"`
	FoodID    *string   `db:"food_id" json:"food_id,omitempty"`
	RecipeID  *string   `db:"recipe_id" json:"recipe_id,omitempty"`
	Name      string    `db:"name" json:"name"`
	Quantity  float64   `db:"quantity" json:"quantity"`
	Unit      string    `db:"unit" json:"unit"`
	Grams     float64   `db:"grams" json:"grams"`
	Calories  float64   `db:"calories" json:"calories"`
	ProteinG  float64   `db:"protein_g" json:"protein_g"`
	CarbsG    float64   `db:"carbs_g" json:"carbs_g"`
	FatG      float64   `db:"fat_g" json:"fat_g"`
	FiberG    float64   `db:"fiber_g" json:"fiber_g"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (e *MealEntry) Macros() Macros {
	return Macros{
		Calories: e.Calories,
		ProteinG: e.ProteinG,
		CarbsG:   e.CarbsG,
		FatG:     e.FatG,
		FiberG:   e.FiberG,
	}
}

func (e *MealEntry) SetMacros(m Macros) {
	e.Calories = m.Calories
	e.ProteinG = m.ProteinG
	e.CarbsG = m.CarbsG
	e.FatG = m.FatG
	e.FiberG = m.FiberG
}

// MealDay groups a day's entries by meal type.
type MealDay struct {
	Date    string                  `json:"date"`
	Meals   map[string][]*MealEntry `json:"meals"`
	Totals  Macros                  `json:"totals"`
	ByMeal  map[string]Macros       `json:"by_meal"`
	Entries int                     `json:"entries"`
}

func NewMealDay(date string, entries []*MealEntry) *MealDay {
	day := &MealDay{
		Date:   date,
		Meals:  make(map[string][]*MealEntry, len(MealTypes)),
		ByMeal: make(map[string]Macros, len(MealTypes)),
	}
	for _, t := range MealTypes {
		day.Meals[t] = []*MealEntry{}
	}

	for _, e := range entries {
		day.Meals[e.MealType] = append(day.Meals[e.MealType], e)
		day.ByMeal[e.MealType] = day.ByMeal[e.MealType].Add(e.Macros())
		day.Totals = day.Totals.Add(e.Macros())
	}
	day.Totals = day.Totals.Rounded()
	for t, m := range day.ByMeal {
		day.ByMeal[t] = m.Rounded()
	}
	day.Entries = len(entries)

	return day
}

// DailyTotal is one point of the nutrition chart.
type DailyTotal struct {
	Date string `json:"date"`
	Macros
}

// DailyTotals folds entries into one total per day from..to inclusive,
// including days without entries.
func DailyTotals(from, to string, entries []*MealEntry) []DailyTotal {
	byDate := make(map[string]Macros)
	for _, e := range entries {
		byDate[e.LogDate] = byDate[e.LogDate].Add(e.Macros())
	}

	var out []DailyTotal
	for d := from; d <= to; {
		out = append(out, DailyTotal{Date: d, Macros: byDate[d].Rounded()})
		next := AddDays(d, 1)
		if next == d {
			break
		}
		d = next
	}
	return out
}
