package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var ErrMealNotFound = errors.New("meal entry not found")

type MealRepository interface {
	Create(entry *model.MealEntry) error
	ByID(userID, id string) (*model.MealEntry, error)
	ByDate(userID, date string) ([]*model.MealEntry, error)
	Range(userID, from, to string) ([]*model.MealEntry, error)
	Update(entry *model.MealEntry) error
	Delete(userID, id string) error
}

type mealRepository struct {
	db *sqlx.DB
}

func NewMealRepository(db *sqlx.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) Create(entry *model.MealEntry) error {
	query := r.db.Rebind(`INSERT INTO meal_entries
	          (id, user_id, log_date, meal_type, food_id, recipe_id, name, quantity, unit, grams, calories, protein_g, carbs_g, fat_g, fiber_g, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.Exec(query,
		entry.ID,
		entry.UserID,
		entry.LogDate,
		entry.MealType,
		entry.FoodID,
		entry.RecipeID,
		entry.Name,
		entry.Quantity,
		entry.Unit,
		entry.Grams,
		entry.Calories,
		entry.ProteinG,
		entry.CarbsG,
		entry.FatG,
		entry.FiberG,
		entry.CreatedAt,
	)

	return err
}

func (r *mealRepository) ByID(userID, id string) (*model.MealEntry, error) {
	entry := &model.MealEntry{}
	query := r.db.Rebind(`SELECT * FROM meal_entries WHERE id = ? AND user_id = ?`)

	err := r.db.Get(entry, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMealNotFound
	}

	return entry, err
}

func (r *mealRepository) ByDate(userID, date string) ([]*model.MealEntry, error) {
	return r.Range(userID, date, date)
}

// Range returns entries from..to inclusive, oldest first.
func (r *mealRepository) Range(userID, from, to string) ([]*model.MealEntry, error) {
	entries := []*model.MealEntry{}
	query := r.db.Rebind(`SELECT * FROM meal_entries
	          WHERE user_id = ? AND log_date >= ? AND log_date <= ?
	          ORDER BY log_date ASC, created_at ASC`)

	err := r.db.Select(&entries, query, userID, from, to)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *mealRepository) Update(entry *model.MealEntry) error {
	query := r.db.Rebind(`UPDATE meal_entries
	          SET log_date = ?, meal_type = ?, name = ?, quantity = ?, unit = ?, grams = ?,
	              calories = ?, protein_g = ?, carbs_g = ?, fat_g = ?, fiber_g = ?
	          WHERE id = ? AND user_id = ?`)

	result, err := r.db.Exec(query,
		entry.LogDate,
		entry.MealType,
		entry.Name,
		entry.Quantity,
		entry.Unit,
		entry.Grams,
		entry.Calories,
		entry.ProteinG,
		entry.CarbsG,
		entry.FatG,
		entry.FiberG,
		entry.ID,
		entry.UserID,
	)

	return checkAffected(result, err, ErrMealNotFound)
}

func (r *mealRepository) Delete(userID, id string) error {
	query := r.db.Rebind(`DELETE FROM meal_entries WHERE id = ? AND user_id = ?`)
	result, err := r.db.Exec(query, id, userID)
	return checkAffected(result, err, ErrMealNotFound)
}
