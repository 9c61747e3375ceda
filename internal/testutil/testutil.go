// Package testutil provides a migrated SQLite database and fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/db"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/textutil"
	"golang.org/x/crypto/bcrypt"
)

// Password is the plain text password of users made by CreateUser.
const Password = "squat-rack-7"

// NewDB opens a fresh SQLite file under t.TempDir and applies all migrations.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "fittrack.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	return conn
}

// CreateUser inserts a user with a profile and returns it. The password is
// Password, hashed at the minimum bcrypt cost.
func CreateUser(t *testing.T, conn *sqlx.DB, email, role string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = conn.Exec(conn.Rebind(`INSERT INTO users (id, email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
		user.ID, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	require.NoError(t, err)

	_, err = conn.Exec(conn.Rebind(`INSERT INTO profiles (id, user_id, name, sex, birth_date, height_cm, activity_level, unit_system, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		uuid.New().String(), user.ID, "Test User", "", "", 0, "", model.UnitSystemMetric, now, now)
	require.NoError(t, err)

	return user
}

// CreateFood inserts a food. A nil owner makes it global.
func CreateFood(t *testing.T, conn *sqlx.DB, owner *model.User, name string, per100g model.Macros, servingG *float64) *model.Food {
	t.Helper()

	now := time.Now()
	food := &model.Food{
		ID:         uuid.New().String(),
		Name:       name,
		SearchName: textutil.Normalize(name),
		Calories:   per100g.Calories,
		ProteinG:   per100g.ProteinG,
		CarbsG:     per100g.CarbsG,
		FatG:       per100g.FatG,
		FiberG:     per100g.FiberG,
		ServingG:   servingG,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if owner != nil {
		food.OwnerID = &owner.ID
	}

	_, err := conn.Exec(conn.Rebind(`INSERT INTO foods (id, owner_id, name, search_name, brand, calories, protein_g, carbs_g, fat_g, fiber_g, serving_g, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		food.ID, food.OwnerID, food.Name, food.SearchName, food.Brand, food.Calories, food.ProteinG,
		food.CarbsG, food.FatG, food.FiberG, food.ServingG, food.CreatedAt, food.UpdatedAt)
	require.NoError(t, err)

	return food
}
