package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type WorkoutRepository interface {
	Create(workout *model.Workout) error
	ByID(userID, id string) (*model.Workout, error)
	Range(userID, from, to string) ([]*model.Workout, error)
	Update(workout *model.Workout) error
	Delete(userID, id string) error
}

type workoutRepository struct {
	db *sqlx.DB
}

func NewWorkoutRepository(db *sqlx.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) Create(workout *model.Workout) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(tx.Rebind(`INSERT INTO workouts (id, user_id, log_date, name, type, duration_min, calories_burned, notes, plan_id, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		workout.ID,
		workout.UserID,
		workout.LogDate,
		workout.Name,
		workout.Type,
		workout.DurationMin,
		workout.CaloriesBurned,
		workout.Notes,
		workout.PlanID,
		workout.CreatedAt,
		workout.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertWorkoutExercises(tx, workout); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *workoutRepository) ByID(userID, id string) (*model.Workout, error) {
	workout := &model.Workout{}
	query := r.db.Rebind(`SELECT * FROM workouts WHERE id = ? AND user_id = ?`)

	err := r.db.Get(workout, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadExercises([]*model.Workout{workout}); err != nil {
		return nil, err
	}

	return workout, nil
}

// Range returns workouts from..to inclusive, newest first.
func (r *workoutRepository) Range(userID, from, to string) ([]*model.Workout, error) {
	workouts := []*model.Workout{}
	query := r.db.Rebind(`SELECT * FROM workouts
	          WHERE user_id = ? AND log_date >= ? AND log_date <= ?
	          ORDER BY log_date DESC, created_at DESC`)

	if err := r.db.Select(&workouts, query, userID, from, to); err != nil {
		return nil, err
	}

	if err := r.loadExercises(workouts); err != nil {
		return nil, err
	}

	return workouts, nil
}

// Update rewrites the workout row and replaces its exercise lines.
func (r *workoutRepository) Update(workout *model.Workout) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(tx.Rebind(`UPDATE workouts
	          SET log_date = ?, name = ?, type = ?, duration_min = ?, calories_burned = ?, notes = ?, updated_at = ?
	          WHERE id = ? AND user_id = ?`),
		workout.LogDate,
		workout.Name,
		workout.Type,
		workout.DurationMin,
		workout.CaloriesBurned,
		workout.Notes,
		workout.UpdatedAt,
		workout.ID,
		workout.UserID,
	)
	if err := checkAffected(result, err, ErrWorkoutNotFound); err != nil {
		return err
	}

	if _, err := tx.Exec(tx.Rebind(`DELETE FROM workout_exercises WHERE workout_id = ?`), workout.ID); err != nil {
		return err
	}

	if err := insertWorkoutExercises(tx, workout); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *workoutRepository) Delete(userID, id string) error {
	query := r.db.Rebind(`DELETE FROM workouts WHERE id = ? AND user_id = ?`)
	result, err := r.db.Exec(query, id, userID)
	return checkAffected(result, err, ErrWorkoutNotFound)
}

func insertWorkoutExercises(tx *sqlx.Tx, workout *model.Workout) error {
	query := tx.Rebind(`INSERT INTO workout_exercises (id, workout_id, exercise_id, name, sets, reps, weight_kg, duration_sec, sort_order)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	for i, e := range workout.Exercises {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.WorkoutID = workout.ID
		e.SortOrder = i

		_, err := tx.Exec(query, e.ID, e.WorkoutID, e.ExerciseID, e.Name, e.Sets, e.Reps, e.WeightKg, e.DurationSec, e.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to insert exercise line %d: %w", i, err)
		}
	}

	return nil
}

func (r *workoutRepository) loadExercises(workouts []*model.Workout) error {
	if len(workouts) == 0 {
		return nil
	}

	byID := make(map[string]*model.Workout, len(workouts))
	ids := make([]string, 0, len(workouts))
	for _, w := range workouts {
		w.Exercises = []*model.WorkoutExercise{}
		byID[w.ID] = w
		ids = append(ids, w.ID)
	}

	query, args, err := sqlx.In(`SELECT * FROM workout_exercises WHERE workout_id IN (?) ORDER BY sort_order ASC`, ids)
	if err != nil {
		return err
	}

	var lines []*model.WorkoutExercise
	if err := r.db.Select(&lines, r.db.Rebind(query), args...); err != nil {
		return err
	}

	for _, l := range lines {
		w := byID[l.WorkoutID]
		w.Exercises = append(w.Exercises, l)
	}
	for _, w := range workouts {
		w.VolumeKg = w.Volume()
	}

	return nil
}
