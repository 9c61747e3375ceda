package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

type UserRepository interface {
	Create(user *model.User, profile *model.Profile) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	List(limit, offset int) ([]*model.User, error)
	Count() (int, error)
	UpdatePassword(id, passwordHash string) error
	UpdateRole(id, role string) error
	Delete(id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and its profile in one transaction.
func (r *userRepository) Create(user *model.User, profile *model.Profile) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := tx.Rebind(`INSERT INTO users (id, email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`)
	_, err = tx.Exec(query, user.ID, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}

	profile.UserID = user.ID
	if err := insertProfile(tx, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return tx.Commit()
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := r.db.Rebind(`SELECT * FROM users WHERE id = ?`)

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := r.db.Rebind(`SELECT * FROM users WHERE email = ?`)

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) List(limit, offset int) ([]*model.User, error) {
	users := []*model.User{}
	query := r.db.Rebind(`SELECT * FROM users ORDER BY created_at ASC, email ASC LIMIT ? OFFSET ?`)

	err := r.db.Select(&users, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM users`)
	return count, err
}

func (r *userRepository) UpdatePassword(id, passwordHash string) error {
	query := r.db.Rebind(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`)
	result, err := r.db.Exec(query, passwordHash, time.Now(), id)
	return checkAffected(result, err, ErrUserNotFound)
}

func (r *userRepository) UpdateRole(id, role string) error {
	query := r.db.Rebind(`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`)
	result, err := r.db.Exec(query, role, time.Now(), id)
	return checkAffected(result, err, ErrUserNotFound)
}

// Delete removes the user; owned rows go with it through ON DELETE CASCADE.
func (r *userRepository) Delete(id string) error {
	query := r.db.Rebind(`DELETE FROM users WHERE id = ?`)
	result, err := r.db.Exec(query, id)
	return checkAffected(result, err, ErrUserNotFound)
}
