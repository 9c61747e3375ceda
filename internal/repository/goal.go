package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID, status string) ([]*model.Goal, error)
	CountActive(userID string) (int, error)
	Update(goal *model.Goal) error
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := r.db.Rebind(`INSERT INTO goals (id, user_id, type, title, target_value, start_value, start_date, target_date, status, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Type,
		goal.Title,
		goal.TargetValue,
		goal.StartValue,
		goal.StartDate,
		goal.TargetDate,
		goal.Status,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := r.db.Rebind(`SELECT * FROM goals WHERE id = ? AND user_id = ?`)

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

// Goals lists the user's goals, optionally filtered by status.
func (r *goalRepository) Goals(userID, status string) ([]*model.Goal, error) {
	goals := []*model.Goal{}

	query := `SELECT * FROM goals WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	err := r.db.Select(&goals, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountActive(userID string) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM goals WHERE user_id = ? AND status = ?`)
	err := r.db.QueryRow(query, userID, model.GoalStatusActive).Scan(&count)
	return count, err
}

func (r *goalRepository) Update(goal *model.Goal) error {
	goal.UpdatedAt = time.Now()
	query := r.db.Rebind(`UPDATE goals
	          SET title = ?, target_value = ?, start_value = ?, target_date = ?, status = ?, updated_at = ?
	          WHERE id = ? AND user_id = ?`)

	result, err := r.db.Exec(query,
		goal.Title,
		goal.TargetValue,
		goal.StartValue,
		goal.TargetDate,
		goal.Status,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)

	return checkAffected(result, err, ErrGoalNotFound)
}

func (r *goalRepository) Delete(userID, goalID string) error {
	query := r.db.Rebind(`DELETE FROM goals WHERE id = ? AND user_id = ?`)
	result, err := r.db.Exec(query, goalID, userID)
	return checkAffected(result, err, ErrGoalNotFound)
}
