package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var ErrFoodNotFound = errors.New("food not found")

type FoodRepository interface {
	Create(food *model.Food) error
	ByID(id string) (*model.Food, error)
	ByIDs(ids []string) (map[string]*model.Food, error)
	ByName(userID, searchName string) (*model.Food, error)
	GlobalByName(searchName string) (*model.Food, error)
	Search(userID, searchName string, limit int) ([]*model.Food, error)
	Update(food *model.Food) error
	Delete(id string) error
}

type foodRepository struct {
	db *sqlx.DB
}

func NewFoodRepository(db *sqlx.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) Create(food *model.Food) error {
	query := r.db.Rebind(`INSERT INTO foods (id, owner_id, name, search_name, brand, calories, protein_g, carbs_g, fat_g, fiber_g, serving_g, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.Exec(query,
		food.ID,
		food.OwnerID,
		food.Name,
		food.SearchName,
		food.Brand,
		food.Calories,
		food.ProteinG,
		food.CarbsG,
		food.FatG,
		food.FiberG,
		food.ServingG,
		food.CreatedAt,
		food.UpdatedAt,
	)

	return err
}

func (r *foodRepository) ByID(id string) (*model.Food, error) {
	food := &model.Food{}
	err := r.db.Get(food, r.db.Rebind(`SELECT * FROM foods WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrFoodNotFound
	}

	return food, err
}

// ByIDs loads foods keyed by id. Unknown ids are absent from the map.
func (r *foodRepository) ByIDs(ids []string) (map[string]*model.Food, error) {
	out := make(map[string]*model.Food, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM foods WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var foods []*model.Food
	if err := r.db.Select(&foods, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, f := range foods {
		out[f.ID] = f
	}

	return out, nil
}

// ByName finds a food visible to the user by normalised name, preferring the
// user's own entry over a global one.
func (r *foodRepository) ByName(userID, searchName string) (*model.Food, error) {
	food := &model.Food{}
	query := r.db.Rebind(`SELECT * FROM foods
	          WHERE search_name = ? AND (owner_id = ? OR owner_id IS NULL)
	          ORDER BY CASE WHEN owner_id IS NULL THEN 1 ELSE 0 END, created_at ASC
	          LIMIT 1`)

	err := r.db.Get(food, query, searchName, userID)
	if err == sql.ErrNoRows {
		return nil, ErrFoodNotFound
	}

	return food, err
}

func (r *foodRepository) GlobalByName(searchName string) (*model.Food, error) {
	food := &model.Food{}
	query := r.db.Rebind(`SELECT * FROM foods WHERE search_name = ? AND owner_id IS NULL LIMIT 1`)

	err := r.db.Get(food, query, searchName)
	if err == sql.ErrNoRows {
		return nil, ErrFoodNotFound
	}

	return food, err
}

// Search matches a normalised substring over global foods and the user's own.
func (r *foodRepository) Search(userID, searchName string, limit int) ([]*model.Food, error) {
	foods := []*model.Food{}
	query := r.db.Rebind(`SELECT * FROM foods
	          WHERE (owner_id = ? OR owner_id IS NULL) AND search_name LIKE ?
	          ORDER BY search_name ASC, brand ASC
	          LIMIT ?`)

	err := r.db.Select(&foods, query, userID, "%"+escapeLike(searchName)+"%", limit)
	if err != nil {
		return nil, err
	}

	return foods, nil
}

func (r *foodRepository) Update(food *model.Food) error {
	food.UpdatedAt = time.Now()
	query := r.db.Rebind(`UPDATE foods
	          SET name = ?, search_name = ?, brand = ?, calories = ?, protein_g = ?, carbs_g = ?, fat_g = ?, fiber_g = ?, serving_g = ?, updated_at = ?
	          WHERE id = ?`)

	result, err := r.db.Exec(query,
		food.Name,
		food.SearchName,
		food.Brand,
		food.Calories,
		food.ProteinG,
		food.CarbsG,
		food.FatG,
		food.FiberG,
		food.ServingG,
		food.UpdatedAt,
		food.ID,
	)

	return checkAffected(result, err, ErrFoodNotFound)
}

func (r *foodRepository) Delete(id string) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM foods WHERE id = ?`), id)
	return checkAffected(result, err, ErrFoodNotFound)
}
