package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeRepository interface {
	Create(recipe *model.Recipe) error
	ByID(userID, id string) (*model.Recipe, error)
	Recipes(userID string) ([]*model.Recipe, error)
	Update(recipe *model.Recipe) error
	Delete(userID, id string) error
}

type recipeRepository struct {
	db *sqlx.DB
}

func NewRecipeRepository(db *sqlx.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create stores the recipe and its ingredients in one transaction.
func (r *recipeRepository) Create(recipe *model.Recipe) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(tx.Rebind(`INSERT INTO recipes (id, user_id, name, servings, instructions, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`),
		recipe.ID, recipe.UserID, recipe.Name, recipe.Servings, recipe.Instructions, recipe.CreatedAt, recipe.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertIngredients(tx, recipe); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *recipeRepository) ByID(userID, id string) (*model.Recipe, error) {
	recipe := &model.Recipe{}
	query := r.db.Rebind(`SELECT * FROM recipes WHERE id = ? AND user_id = ?`)

	err := r.db.Get(recipe, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadIngredients([]*model.Recipe{recipe}); err != nil {
		return nil, err
	}

	return recipe, nil
}

func (r *recipeRepository) Recipes(userID string) ([]*model.Recipe, error) {
	recipes := []*model.Recipe{}
	query := r.db.Rebind(`SELECT * FROM recipes WHERE user_id = ? ORDER BY name ASC`)

	if err := r.db.Select(&recipes, query, userID); err != nil {
		return nil, err
	}

	if err := r.loadIngredients(recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// Update rewrites the recipe row and replaces its ingredient list.
func (r *recipeRepository) Update(recipe *model.Recipe) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(tx.Rebind(`UPDATE recipes SET name = ?, servings = ?, instructions = ?, updated_at = ?
	          WHERE id = ? AND user_id = ?`),
		recipe.Name, recipe.Servings, recipe.Instructions, recipe.UpdatedAt, recipe.ID, recipe.UserID)
	if err := checkAffected(result, err, ErrRecipeNotFound); err != nil {
		return err
	}

	if _, err := tx.Exec(tx.Rebind(`DELETE FROM recipe_ingredients WHERE recipe_id = ?`), recipe.ID); err != nil {
		return err
	}

	if err := insertIngredients(tx, recipe); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *recipeRepository) Delete(userID, id string) error {
	query := r.db.Rebind(`DELETE FROM recipes WHERE id = ? AND user_id = ?`)
	result, err := r.db.Exec(query, id, userID)
	return checkAffected(result, err, ErrRecipeNotFound)
}

func insertIngredients(tx *sqlx.Tx, recipe *model.Recipe) error {
	query := tx.Rebind(`INSERT INTO recipe_ingredients (id, recipe_id, food_id, quantity, unit, sort_order)
	          VALUES (?, ?, ?, ?, ?, ?)`)

	for i, ing := range recipe.Ingredients {
		if ing.ID == "" {
			ing.ID = uuid.New().String()
		}
		ing.RecipeID = recipe.ID
		ing.SortOrder = i

		_, err := tx.Exec(query, ing.ID, ing.RecipeID, ing.FoodID, ing.Quantity, ing.Unit, ing.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to insert ingredient %d: %w", i, err)
		}
	}

	return nil
}

func (r *recipeRepository) loadIngredients(recipes []*model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[string]*model.Recipe, len(recipes))
	ids := make([]string, 0, len(recipes))
	for _, rec := range recipes {
		rec.Ingredients = []*model.RecipeIngredient{}
		byID[rec.ID] = rec
		ids = append(ids, rec.ID)
	}

	query, args, err := sqlx.In(`SELECT * FROM recipe_ingredients WHERE recipe_id IN (?) ORDER BY sort_order ASC`, ids)
	if err != nil {
		return err
	}

	var ingredients []*model.RecipeIngredient
	if err := r.db.Select(&ingredients, r.db.Rebind(query), args...); err != nil {
		return err
	}

	for _, ing := range ingredients {
		rec := byID[ing.RecipeID]
		rec.Ingredients = append(rec.Ingredients, ing)
	}

	return nil
}
