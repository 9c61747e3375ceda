package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/validation"
)

const (
	// maxWeightRangeDays allows a year of history on the weight chart.
	maxWeightRangeDays = 366
	defaultStatsDays   = 30
)

type WeightInput struct {
	LogDate    string   `json:"log_date"`
	Weight     float64  `json:"weight"`
	Unit       string   `json:"unit"`
	BodyFatPct *float64 `json:"body_fat_pct"`
	Note       string   `json:"note"`
}

type WeightService struct {
	repo repository.WeightRepository
}

func NewWeightService(repo repository.WeightRepository) *WeightService {
	return &WeightService{repo: repo}
}

// Log records the weight of a day, replacing an earlier entry of that day.
func (s *WeightService) Log(userID string, in WeightInput) (*model.WeightLog, error) {
	in.Note = strings.TrimSpace(in.Note)
	if err := validation.Date("log_date", in.LogDate); err != nil {
		return nil, err
	}

	kg, err := model.WeightToKg(in.Weight, in.Unit)
	if err != nil {
		return nil, validation.Newf("unit", "must be kg or lb")
	}

	err = validation.First(
		validation.Range("weight", kg, model.MinWeightKg, model.MaxWeightKg),
		validation.MaxLen("note", in.Note, 500),
	)
	if err != nil {
		return nil, err
	}
	if in.BodyFatPct != nil {
		if err := validation.Range("body_fat_pct", *in.BodyFatPct, 1, 75); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	log := &model.WeightLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		LogDate:    in.LogDate,
		WeightKg:   kg,
		BodyFatPct: in.BodyFatPct,
		Note:       in.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Upsert(log); err != nil {
		return nil, fmt.Errorf("failed to save weight: %w", err)
	}
	return log, nil
}

// List returns entries oldest first with the trend line applied.
func (s *WeightService) List(userID, from, to string) ([]*model.WeightLog, error) {
	if err := validation.DateRange(from, to, maxWeightRangeDays); err != nil {
		return nil, err
	}

	logs, err := s.repo.Range(userID, from, to)
	if err != nil {
		return nil, err
	}
	model.ApplyTrend(logs)
	return logs, nil
}

// Latest returns the most recent weight on or before date, nil when none.
func (s *WeightService) Latest(userID, date string) (*model.WeightLog, error) {
	log, err := s.repo.Latest(userID, date)
	if errors.Is(err, repository.ErrWeightNotFound) {
		return nil, nil
	}
	return log, err
}

// First returns the oldest weight in from..to, nil when none.
func (s *WeightService) First(userID, from, to string) (*model.WeightLog, error) {
	log, err := s.repo.First(userID, from, to)
	if errors.Is(err, repository.ErrWeightNotFound) {
		return nil, nil
	}
	return log, err
}

// LatestKg is Latest for calorie estimates, falling back to the default body weight.
func (s *WeightService) LatestKg(userID, date string) (float64, error) {
	log, err := s.Latest(userID, date)
	if err != nil {
		return 0, err
	}
	if log == nil {
		return model.DefaultWeightKg, nil
	}
	return log.WeightKg, nil
}

func (s *WeightService) Delete(userID, id string) error {
	return s.repo.Delete(userID, id)
}

// Stats summarises the last days days up to today.
func (s *WeightService) Stats(userID string, days int) (*model.WeightStats, error) {
	if days == 0 {
		days = defaultStatsDays
	}
	if err := validation.IntRange("days", days, 1, maxWeightRangeDays); err != nil {
		return nil, err
	}

	to := model.Today()
	logs, err := s.List(userID, model.AddDays(to, -(days-1)), to)
	if err != nil {
		return nil, err
	}
	return model.NewWeightStats(days, logs), nil
}
