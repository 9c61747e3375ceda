package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

type ProfileRepository interface {
	ByUserID(userID string) (*model.Profile, error)
	Update(profile *model.Profile) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, r.db.Rebind(`SELECT * FROM profiles WHERE user_id = ?`), userID)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// insertProfile fills defaults and inserts the profile inside the user's
// registration transaction.
func insertProfile(tx *sqlx.Tx, profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = profile.CreatedAt
	}
	if profile.UnitSystem == "" {
		profile.UnitSystem = model.UnitSystemMetric
	}

	_, err := tx.Exec(tx.Rebind(`
		INSERT INTO profiles (id, user_id, name, sex, birth_date, height_cm, activity_level, unit_system, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), profile.ID, profile.UserID, profile.Name, profile.Sex, profile.BirthDate, profile.HeightCm,
		profile.ActivityLevel, profile.UnitSystem, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) Update(profile *model.Profile) error {
	profile.UpdatedAt = time.Now()
	result, err := r.db.Exec(r.db.Rebind(`
		UPDATE profiles
		SET name = ?, sex = ?, birth_date = ?, height_cm = ?, activity_level = ?, unit_system = ?, updated_at = ?
		WHERE user_id = ?
	`), profile.Name, profile.Sex, profile.BirthDate, profile.HeightCm, profile.ActivityLevel,
		profile.UnitSystem, profile.UpdatedAt, profile.UserID)

	return checkAffected(result, err, ErrProfileNotFound)
}
