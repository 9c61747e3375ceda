package model

import (
	"math"
	"time"
)

const (
	SexMale   = "male"
	SexFemale = "female"
	SexOther  = "other"

	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"

	UnitSystemMetric   = "metric"
	UnitSystemImperial = "imperial"
)

// activityMultipliers scale BMR to total daily energy expenditure.
var activityMultipliers = map[string]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

func ValidSex(s string) bool {
	return s == SexMale || s == SexFemale || s == SexOther
}

func ValidActivityLevel(level string) bool {
	_, ok := activityMultipliers[level]
	return ok
}

func ValidUnitSystem(u string) bool {
	return u == UnitSystemMetric || u == UnitSystemImperial
}

type Profile struct {
	ID            string    `db:"id" json:"-"`
	UserID        string    `db:"user_id" json:"-"`
	Name          string    `db:"name" json:"name"`
	Sex           string    `db:"sex" json:"sex"`
	BirthDate     string    `db:"birth_date" json:"birth_date"`
	HeightCm      float64   `db:"height_cm" json:"height_cm"`
	ActivityLevel string    `db:"activity_level" json:"activity_level"`
	UnitSystem    string    `db:"unit_system" json:"unit_system"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Age returns full years at the given day, or 0 when the birth date is unset.
func (p *Profile) Age(on time.Time) int {
	birth, err := ParseDate(p.BirthDate)
	if err != nil {
		return 0
	}
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age
}

// BMR returns the Mifflin-St Jeor basal metabolic rate in kcal, or 0 when the
// profile is incomplete.
func (p *Profile) BMR(weightKg float64, on time.Time) float64 {
	age := p.Age(on)
	if weightKg <= 0 || p.HeightCm <= 0 || age <= 0 || p.Sex == "" {
		return 0
	}

	base := 10*weightKg + 6.25*p.HeightCm - 5*float64(age)
	switch p.Sex {
	case SexMale:
		base += 5
	case SexFemale:
		base -= 161
	default:
		base -= 78
	}
	return math.Round(base)
}

// TDEE returns BMR scaled by the activity level, or 0 when unknown.
func (p *Profile) TDEE(weightKg float64, on time.Time) float64 {
	bmr := p.BMR(weightKg, on)
	mult, ok := activityMultipliers[p.ActivityLevel]
	if bmr == 0 || !ok {
		return 0
	}
	return math.Round(bmr * mult)
}
