package model

import (
	"time"
)

type Recipe struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"-"`
	Name         string    `db:"name" json:"name"`
	Servings     int       `db:"servings" json:"servings"`
	Instructions string    `db:"instructions" json:"instructions"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Computed fields (not in database)
	Ingredients      []*RecipeIngredient `db:"-" json:"ingredients"`
	InstructionsHTML string              `db:"-" json:"instructions_html"`
	Total            Macros              `db:"-" json:"total"`
	PerServing       Macros              `db:"-" json:"per_serving"`
	ImageURL         string              `db:"-" json:"image_url,omitempty"`
}

type RecipeIngredient struct {
	ID        string  `db:"id" json:"id"`
	RecipeID  string  `db:"recipe_id" json:"-"`
	FoodID    string  `db:"food_id" json:"food_id"`
	Quantity  float64 `db:"quantity" json:"quantity"`
	Unit      string  `db:"unit" json:"unit"`
	SortOrder int     `db:"sort_order" json:"sort_order"`

	// Computed fields (not in database)
	FoodName   string  `db:"-" json:"food_name"`
	Grams      float64 `db:"-" json:"grams"`
	Macros     Macros  `db:"-" json:"macros"`
	Unresolved bool    `db:"-" json:"unresolved,omitempty"`
}

// ComputeMacros fills ingredient, total and per serving macros from the given
// foods keyed by id. Ingredients whose food is missing, or no longer converts
// from the stored unit, contribute nothing and are marked Unresolved.
func (r *Recipe) ComputeMacros(foods map[string]*Food) {
	var total Macros
	for _, ing := range r.Ingredients {
		ing.Unresolved = false
		food, ok := foods[ing.FoodID]
		if !ok {
			ing.Unresolved = true
			continue
		}
		ing.FoodName = food.Name
		grams, macros, err := food.MacrosFor(ing.Quantity, ing.Unit)
		if err != nil {
			ing.Grams, ing.Macros, ing.Unresolved = 0, Macros{}, true
			continue
		}
		ing.Grams = grams
		ing.Macros = macros
		total = total.Add(macros)
	}

	r.Total = total.Rounded()
	servings := r.Servings
	if servings < 1 {
		servings = 1
	}
	r.PerServing = total.Scale(1 / float64(servings)).Rounded()
}
