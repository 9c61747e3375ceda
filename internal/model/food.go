package model

import (
	"time"
)

// Food is a catalog entry. Nutrient values are per 100 g.
// A nil OwnerID marks a global food maintained by admins.
type Food struct {
	ID         string    `db:"id" json:"id"`
	OwnerID    *string   `db:"owner_id" json:"owner_id,omitempty"`
	Name       string    `db:"name" json:"name"`
	SearchName string    `db:"search_name" json:"-"`
	Brand      string    `db:"brand" json:"brand"`
	Calories   float64   `db:"calories" json:"calories"`
	ProteinG   float64   `db:"protein_g" json:"protein_g"`
	CarbsG     float64   `db:"carbs_g" json:"carbs_g"`
	FatG       float64   `db:"fat_g" json:"fat_g"`
	FiberG     float64   `db:"fiber_g" json:"fiber_g"`
	ServingG   *float64  `db:"serving_g" json:"serving_g,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

func (f *Food) IsGlobal() bool {
	return f.OwnerID == nil
}

func (f *Food) OwnedBy(userID string) bool {
	return f.OwnerID != nil && *f.OwnerID == userID
}

func (f *Food) Per100g() Macros {
	return Macros{
		Calories: f.Calories,
		ProteinG: f.ProteinG,
		CarbsG:   f.CarbsG,
		FatG:     f.FatG,
		FiberG:   f.FiberG,
	}
}

// MacrosFor returns the grams and rounded macros of quantity of this food.
func (f *Food) MacrosFor(quantity float64, unit string) (float64, Macros, error) {
	grams, err := ToGrams(quantity, unit, f.ServingG)
	if err != nil {
		return 0, Macros{}, err
	}
	return round1(grams), f.Per100g().Scale(grams / 100).Rounded(), nil
}
