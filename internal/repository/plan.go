package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var ErrPlanNotFound = errors.New("workout plan not found")

type PlanRepository interface {
	Create(plan *model.WorkoutPlan) error
	ByID(id string) (*model.WorkoutPlan, error)
	ByOwner(ownerID string) ([]*model.WorkoutPlan, error)
	ByStatus(status string) ([]*model.WorkoutPlan, error)
	Update(plan *model.WorkoutPlan, fromStatus string) error
	UpdateStatus(plan *model.WorkoutPlan, fromStatus string) error
	Delete(ownerID, id string) error
}

type planRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(plan *model.WorkoutPlan) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(tx.Rebind(`INSERT INTO workout_plans (id, owner_id, name, description, status, review_note, reviewed_by, reviewed_at, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		plan.ID,
		plan.OwnerID,
		plan.Name,
		plan.Description,
		plan.Status,
		plan.ReviewNote,
		plan.ReviewedBy,
		plan.ReviewedAt,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertPlanExercises(tx, plan); err != nil {
		return err
	}

	return tx.Commit()
}

// ByID loads any plan; visibility is decided by the caller.
func (r *planRepository) ByID(id string) (*model.WorkoutPlan, error) {
	plan := &model.WorkoutPlan{}
	err := r.db.Get(plan, r.db.Rebind(`SELECT * FROM workout_plans WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadExercises([]*model.WorkoutPlan{plan}); err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *planRepository) ByOwner(ownerID string) ([]*model.WorkoutPlan, error) {
	return r.list(`SELECT * FROM workout_plans WHERE owner_id = ? ORDER BY updated_at DESC`, ownerID)
}

// ByStatus lists plans of every owner in the given status, oldest first so
// that the review queue is worked in submission order.
func (r *planRepository) ByStatus(status string) ([]*model.WorkoutPlan, error) {
	return r.list(`SELECT * FROM workout_plans WHERE status = ? ORDER BY updated_at ASC`, status)
}

func (r *planRepository) list(query string, args ...any) ([]*model.WorkoutPlan, error) {
	plans := []*model.WorkoutPlan{}
	if err := r.db.Select(&plans, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	if err := r.loadExercises(plans); err != nil {
		return nil, err
	}

	return plans, nil
}

// Update writes the owner editable fields, the status and replaces the
// exercises. Like UpdateStatus it only applies while the plan is still in
// fromStatus.
func (r *planRepository) Update(plan *model.WorkoutPlan, fromStatus string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(tx.Rebind(`UPDATE workout_plans
	          SET name = ?, description = ?, status = ?, reviewed_by = ?, reviewed_at = ?, updated_at = ?
	          WHERE id = ? AND owner_id = ? AND status = ?`),
		plan.Name,
		plan.Description,
		plan.Status,
		plan.ReviewedBy,
		plan.ReviewedAt,
		plan.UpdatedAt,
		plan.ID,
		plan.OwnerID,
		fromStatus,
	)
	if err := checkAffected(result, err, ErrPlanNotFound); err != nil {
		return err
	}

	if _, err := tx.Exec(tx.Rebind(`DELETE FROM plan_exercises WHERE plan_id = ?`), plan.ID); err != nil {
		return err
	}

	if err := insertPlanExercises(tx, plan); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateStatus persists a workflow transition away from fromStatus. A plan
// that has meanwhile left fromStatus is reported as ErrPlanNotFound.
func (r *planRepository) UpdateStatus(plan *model.WorkoutPlan, fromStatus string) error {
	query := r.db.Rebind(`UPDATE workout_plans
	          SET status = ?, review_note = ?, reviewed_by = ?, reviewed_at = ?, updated_at = ?
	          WHERE id = ? AND status = ?`)

	result, err := r.db.Exec(query,
		plan.Status,
		plan.ReviewNote,
		plan.ReviewedBy,
		plan.ReviewedAt,
		plan.UpdatedAt,
		plan.ID,
		fromStatus,
	)

	return checkAffected(result, err, ErrPlanNotFound)
}

func (r *planRepository) Delete(ownerID, id string) error {
	query := r.db.Rebind(`DELETE FROM workout_plans WHERE id = ? AND owner_id = ?`)
	result, err := r.db.Exec(query, id, ownerID)
	return checkAffected(result, err, ErrPlanNotFound)
}

func insertPlanExercises(tx *sqlx.Tx, plan *model.WorkoutPlan) error {
	query := tx.Rebind(`INSERT INTO plan_exercises (id, plan_id, exercise_id, name, target_sets, target_reps, sort_order)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`)

	for i, e := range plan.Exercises {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.PlanID = plan.ID
		e.SortOrder = i

		_, err := tx.Exec(query, e.ID, e.PlanID, e.ExerciseID, e.Name, e.TargetSets, e.TargetReps, e.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to insert plan exercise %d: %w", i, err)
		}
	}

	return nil
}

func (r *planRepository) loadExercises(plans []*model.WorkoutPlan) error {
	if len(plans) == 0 {
		return nil
	}

	byID := make(map[string]*model.WorkoutPlan, len(plans))
	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		p.Exercises = []*model.PlanExercise{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query, args, err := sqlx.In(`SELECT * FROM plan_exercises WHERE plan_id IN (?) ORDER BY sort_order ASC`, ids)
	if err != nil {
		return err
	}

	var lines []*model.PlanExercise
	if err := r.db.Select(&lines, r.db.Rebind(query), args...); err != nil {
		return err
	}

	for _, l := range lines {
		p := byID[l.PlanID]
		p.Exercises = append(p.Exercises, l)
	}

	return nil
}
