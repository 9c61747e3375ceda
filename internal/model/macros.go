package model

import (
	"errors"
	"math"
)

const (
	UnitGram       = "g"
	UnitKilogram   = "kg"
	UnitOunce      = "oz"
	UnitPound      = "lb"
	UnitMilliliter = "ml"
	UnitLiter      = "l"
	UnitCup        = "cup"
	UnitTablespoon = "tbsp"
	UnitTeaspoon   = "tsp"
	UnitServing    = "serving"
)

var (
	ErrUnknownUnit     = errors.New("unknown unit")
	ErrNoServingSize   = errors.New("food has no serving size")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// gramsPerUnit holds fixed conversions. Volume units assume a density of 1 g/ml.
var gramsPerUnit = map[string]float64{
	UnitGram:       1,
	UnitKilogram:   1000,
	UnitOunce:      28.349523125,
	UnitPound:      453.59237,
	UnitMilliliter: 1,
	UnitLiter:      1000,
	UnitCup:        240,
	UnitTablespoon: 15,
	UnitTeaspoon:   5,
}

func ValidUnit(unit string) bool {
	if unit == UnitServing {
		return true
	}
	_, ok := gramsPerUnit[unit]
	return ok
}

// ToGrams converts a quantity in unit to grams. servingG is only consulted for
// the serving unit.
func ToGrams(quantity float64, unit string, servingG *float64) (float64, error) {
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return 0, ErrInvalidQuantity
	}

	if unit == UnitServing {
		if servingG == nil || *servingG <= 0 {
			return 0, ErrNoServingSize
		}
		return quantity * *servingG, nil
	}

	factor, ok := gramsPerUnit[unit]
	if !ok {
		return 0, ErrUnknownUnit
	}
	return quantity * factor, nil
}

type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		ProteinG: m.ProteinG + o.ProteinG,
		CarbsG:   m.CarbsG + o.CarbsG,
		FatG:     m.FatG + o.FatG,
		FiberG:   m.FiberG + o.FiberG,
	}
}

func (m Macros) Scale(f float64) Macros {
	return Macros{
		Calories: m.Calories * f,
		ProteinG: m.ProteinG * f,
		CarbsG:   m.CarbsG * f,
		FatG:     m.FatG * f,
		FiberG:   m.FiberG * f,
	}
}

// Rounded returns whole calories and grams to one decimal place.
func (m Macros) Rounded() Macros {
	return Macros{
		Calories: math.Round(m.Calories),
		ProteinG: round1(m.ProteinG),
		CarbsG:   round1(m.CarbsG),
		FatG:     round1(m.FatG),
		FiberG:   round1(m.FiberG),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
