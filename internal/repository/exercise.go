package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type ExerciseRepository interface {
	Create(exercise *model.Exercise) error
	ByID(id string) (*model.Exercise, error)
	GlobalByName(searchName string) (*model.Exercise, error)
	Search(userID, searchName, muscleGroup string) ([]*model.Exercise, error)
	Delete(id string) error
}

type exerciseRepository struct {
	db *sqlx.DB
}

func NewExerciseRepository(db *sqlx.DB) ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Create(exercise *model.Exercise) error {
	query := r.db.Rebind(`INSERT INTO exercises (id, owner_id, name, search_name, muscle_group, equipment, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.Exec(query,
		exercise.ID,
		exercise.OwnerID,
		exercise.Name,
		exercise.SearchName,
		exercise.MuscleGroup,
		exercise.Equipment,
		exercise.CreatedAt,
	)

	return err
}

func (r *exerciseRepository) ByID(id string) (*model.Exercise, error) {
	exercise := &model.Exercise{}
	err := r.db.Get(exercise, r.db.Rebind(`SELECT * FROM exercises WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrExerciseNotFound
	}

	return exercise, err
}

func (r *exerciseRepository) GlobalByName(searchName string) (*model.Exercise, error) {
	exercise := &model.Exercise{}
	query := r.db.Rebind(`SELECT * FROM exercises WHERE search_name = ? AND owner_id IS NULL LIMIT 1`)

	err := r.db.Get(exercise, query, searchName)
	if err == sql.ErrNoRows {
		return nil, ErrExerciseNotFound
	}

	return exercise, err
}

// Search lists global and own exercises. Empty filters match everything.
func (r *exerciseRepository) Search(userID, searchName, muscleGroup string) ([]*model.Exercise, error) {
	exercises := []*model.Exercise{}
	query := `SELECT * FROM exercises WHERE (owner_id = ? OR owner_id IS NULL) AND search_name LIKE ?`
	args := []any{userID, "%" + escapeLike(searchName) + "%"}

	if muscleGroup != "" {
		query += ` AND muscle_group = ?`
		args = append(args, muscleGroup)
	}
	query += ` ORDER BY search_name ASC`

	err := r.db.Select(&exercises, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return exercises, nil
}

func (r *exerciseRepository) Delete(id string) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM exercises WHERE id = ?`), id)
	return checkAffected(result, err, ErrExerciseNotFound)
}
