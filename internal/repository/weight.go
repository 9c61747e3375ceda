package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var ErrWeightNotFound = errors.New("weight log not found")

type WeightRepository interface {
	Upsert(log *model.WeightLog) error
	Range(userID, from, to string) ([]*model.WeightLog, error)
	Latest(userID, onOrBefore string) (*model.WeightLog, error)
	First(userID, from, to string) (*model.WeightLog, error)
	Delete(userID, id string) error
}

type weightRepository struct {
	db *sqlx.DB
}

func NewWeightRepository(db *sqlx.DB) WeightRepository {
	return &weightRepository{db: db}
}

// Upsert replaces the user's entry for log.LogDate if one exists. On update
// log.ID and log.CreatedAt take the stored values. The insert goes first so a
// concurrent log for the same day turns into an update instead of failing.
func (r *weightRepository) Upsert(log *model.WeightLog) error {
	_, err := r.db.Exec(r.db.Rebind(`INSERT INTO weight_logs (id, user_id, log_date, weight_kg, body_fat_pct, note, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		log.ID, log.UserID, log.LogDate, log.WeightKg, log.BodyFatPct, log.Note, log.CreatedAt, log.UpdatedAt)
	if err == nil || !isUniqueViolation(err) {
		return err
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(tx.Rebind(`UPDATE weight_logs SET weight_kg = ?, body_fat_pct = ?, note = ?, updated_at = ?
	          WHERE user_id = ? AND log_date = ?`),
		log.WeightKg, log.BodyFatPct, log.Note, log.UpdatedAt, log.UserID, log.LogDate)
	if err := checkAffected(result, err, ErrWeightNotFound); err != nil {
		return err
	}

	var existing model.WeightLog
	err = tx.Get(&existing, tx.Rebind(`SELECT id, created_at FROM weight_logs WHERE user_id = ? AND log_date = ?`), log.UserID, log.LogDate)
	if err != nil {
		return err
	}
	log.ID = existing.ID
	log.CreatedAt = existing.CreatedAt

	return tx.Commit()
}

// Range returns entries from..to inclusive, oldest first.
func (r *weightRepository) Range(userID, from, to string) ([]*model.WeightLog, error) {
	logs := []*model.WeightLog{}
	query := r.db.Rebind(`SELECT * FROM weight_logs
	          WHERE user_id = ? AND log_date >= ? AND log_date <= ?
	          ORDER BY log_date ASC`)

	err := r.db.Select(&logs, query, userID, from, to)
	if err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *weightRepository) Latest(userID, onOrBefore string) (*model.WeightLog, error) {
	log := &model.WeightLog{}
	query := r.db.Rebind(`SELECT * FROM weight_logs WHERE user_id = ? AND log_date <= ? ORDER BY log_date DESC LIMIT 1`)

	err := r.db.Get(log, query, userID, onOrBefore)
	if err == sql.ErrNoRows {
		return nil, ErrWeightNotFound
	}

	return log, err
}

// First returns the oldest entry in from..to inclusive.
func (r *weightRepository) First(userID, from, to string) (*model.WeightLog, error) {
	log := &model.WeightLog{}
	query := r.db.Rebind(`SELECT * FROM weight_logs
	          WHERE user_id = ? AND log_date >= ? AND log_date <= ?
	          ORDER BY log_date ASC LIMIT 1`)

	err := r.db.Get(log, query, userID, from, to)
	if err == sql.ErrNoRows {
		return nil, ErrWeightNotFound
	}

	return log, err
}

func (r *weightRepository) Delete(userID, id string) error {
	query := r.db.Rebind(`DELETE FROM weight_logs WHERE id = ? AND user_id = ?`)
	result, err := r.db.Exec(query, id, userID)
	return checkAffected(result, err, ErrWeightNotFound)
}
