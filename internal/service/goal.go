package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/validation"
)

var ErrGoalLimitReached = errors.New("active goal limit reached")

var defaultGoalTitles = map[string]string{
	model.GoalDailyCalories:  "Daily calories",
	model.GoalDailyProtein:   "Daily protein",
	model.GoalTargetWeight:   "Target weight",
	model.GoalWeeklyWorkouts: "Weekly workouts",
}

type GoalInput struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	TargetValue float64  `json:"target_value"`
	StartValue  *float64 `json:"start_value"`
	StartDate   string   `json:"start_date"`
	TargetDate  *string  `json:"target_date"`
}

// GoalUpdate is a partial update; nil fields are left unchanged.
type GoalUpdate struct {
	Title       *string  `json:"title"`
	TargetValue *float64 `json:"target_value"`
	TargetDate  *string  `json:"target_date"`
	Status      *string  `json:"status"`
}

type GoalService struct {
	repo           repository.GoalRepository
	mealService    *MealService
	workoutService *WorkoutService
	weightService  *WeightService
	maxActive      int
}

// NewGoalService limits users to maxActive active goals; -1 means unlimited.
func NewGoalService(
	repo repository.GoalRepository,
	mealService *MealService,
	workoutService *WorkoutService,
	weightService *WeightService,
	maxActive int,
) *GoalService {
	return &GoalService{
		repo:           repo,
		mealService:    mealService,
		workoutService: workoutService,
		weightService:  weightService,
		maxActive:      maxActive,
	}
}

func (s *GoalService) Create(userID string, in GoalInput) (*model.Goal, error) {
	in.Title = strings.TrimSpace(in.Title)
	if !model.ValidGoalType(in.Type) {
		return nil, validation.Newf("type", "must be one of daily_calories, daily_protein, target_weight, weekly_workouts")
	}
	if in.Title == "" {
		in.Title = defaultGoalTitles[in.Type]
	}
	if in.StartDate == "" {
		in.StartDate = model.Today()
	}

	err := validation.First(
		validation.MaxLen("title", in.Title, 200),
		validation.Date("start_date", in.StartDate),
		validateTarget(in.Type, in.TargetValue),
		validateTargetDate(in.StartDate, in.TargetDate),
	)
	if err != nil {
		return nil, err
	}

	if err := s.checkLimit(userID); err != nil {
		return nil, err
	}

	if in.Type == model.GoalTargetWeight && in.StartValue == nil {
		latest, err := s.weightService.Latest(userID, in.StartDate)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			in.StartValue = &latest.WeightKg
		}
	}

	now := time.Now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        in.Type,
		Title:       in.Title,
		TargetValue: in.TargetValue,
		StartValue:  in.StartValue,
		StartDate:   in.StartDate,
		TargetDate:  in.TargetDate,
		Status:      model.GoalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("goal created", "goal_id", goal.ID, "user_id", userID, "type", goal.Type)
	return goal, nil
}

func (s *GoalService) Get(userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(userID, goalID)
}

// List filters by status when one is given.
func (s *GoalService) List(userID, status string) ([]*model.Goal, error) {
	if status != "" && !model.ValidGoalStatus(status) {
		return nil, validation.Newf("status", "must be active, completed or abandoned")
	}
	return s.repo.Goals(userID, status)
}

func (s *GoalService) Update(userID, goalID string, in GoalUpdate) (*model.Goal, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validation.First(validation.Required("title", title), validation.MaxLen("title", title, 200)); err != nil {
			return nil, err
		}
		goal.Title = title
	}
	if in.TargetValue != nil {
		if err := validateTarget(goal.Type, *in.TargetValue); err != nil {
			return nil, err
		}
		goal.TargetValue = *in.TargetValue
	}
	if in.TargetDate != nil {
		if err := validateTargetDate(goal.StartDate, in.TargetDate); err != nil {
			return nil, err
		}
		goal.TargetDate = in.TargetDate
	}
	if in.Status != nil {
		if !model.ValidGoalStatus(*in.Status) {
			return nil, validation.Newf("status", "must be active, completed or abandoned")
		}
		if *in.Status == model.GoalStatusActive && goal.Status != model.GoalStatusActive {
			if err := s.checkLimit(userID); err != nil {
				return nil, err
			}
		}
		goal.Status = *in.Status
	}

	goal.UpdatedAt = time.Now()
	if err := s.repo.Update(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Delete(userID, goalID string) error {
	return s.repo.Delete(userID, goalID)
}

// Progress measures a goal on date. A reached target weight goal is marked
// completed.
func (s *GoalService) Progress(userID, goalID, date string) (*model.GoalProgress, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	return s.progress(goal, date)
}

// ActiveProgress measures every active goal on date.
func (s *GoalService) ActiveProgress(userID, date string) ([]*model.GoalProgress, error) {
	goals, err := s.repo.Goals(userID, model.GoalStatusActive)
	if err != nil {
		return nil, err
	}

	out := make([]*model.GoalProgress, 0, len(goals))
	for _, goal := range goals {
		p, err := s.progress(goal, date)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *GoalService) progress(goal *model.Goal, date string) (*model.GoalProgress, error) {
	if date == "" {
		date = model.Today()
	}
	if err := validation.Date("date", date); err != nil {
		return nil, err
	}

	if err := s.fillStartWeight(goal, date); err != nil {
		return nil, err
	}

	current, err := s.current(goal, date)
	if err != nil {
		return nil, err
	}

	p := model.NewGoalProgress(goal, date, current)
	if goal.Type == model.GoalTargetWeight && p.Reached && goal.Status == model.GoalStatusActive {
		goal.Status = model.GoalStatusCompleted
		goal.UpdatedAt = time.Now()
		if err := s.repo.Update(goal); err != nil {
			return nil, fmt.Errorf("failed to complete goal: %w", err)
		}
		slog.Info("goal completed", "goal_id", goal.ID, "user_id", goal.UserID)
	}
	return p, nil
}

// fillStartWeight stores the first weight logged since the start date on a
// target_weight goal created before any weight was logged.
func (s *GoalService) fillStartWeight(goal *model.Goal, date string) error {
	if goal.Type != model.GoalTargetWeight || goal.StartValue != nil || date < goal.StartDate {
		return nil
	}

	first, err := s.weightService.First(goal.UserID, goal.StartDate, date)
	if err != nil || first == nil {
		return err
	}

	goal.StartValue = &first.WeightKg
	goal.UpdatedAt = time.Now()
	if err := s.repo.Update(goal); err != nil {
		return fmt.Errorf("failed to set goal start value: %w", err)
	}
	return nil
}

// current returns the measured value of the goal on date, nil when nothing
// has been logged.
func (s *GoalService) current(goal *model.Goal, date string) (*float64, error) {
	switch goal.Type {
	case model.GoalDailyCalories, model.GoalDailyProtein:
		day, err := s.mealService.Day(goal.UserID, date)
		if err != nil {
			return nil, err
		}
		v := day.Totals.Calories
		if goal.Type == model.GoalDailyProtein {
			v = day.Totals.ProteinG
		}
		return &v, nil
	case model.GoalWeeklyWorkouts:
		week, err := s.workoutService.Week(goal.UserID, date)
		if err != nil {
			return nil, err
		}
		v := float64(week.Count)
		return &v, nil
	case model.GoalTargetWeight:
		latest, err := s.weightService.Latest(goal.UserID, date)
		if err != nil || latest == nil {
			return nil, err
		}
		return &latest.WeightKg, nil
	}
	return nil, nil
}

func (s *GoalService) checkLimit(userID string) error {
	if s.maxActive == -1 {
		return nil
	}
	count, err := s.repo.CountActive(userID)
	if err != nil {
		return fmt.Errorf("failed to count goals: %w", err)
	}
	if count >= s.maxActive {
		return ErrGoalLimitReached
	}
	return nil
}

func validateTarget(goalType string, v float64) error {
	switch goalType {
	case model.GoalTargetWeight:
		return validation.Range("target_value", v, model.MinWeightKg, model.MaxWeightKg)
	case model.GoalWeeklyWorkouts:
		return validation.Range("target_value", v, 1, 21)
	default:
		return validation.Range("target_value", v, 1, 20000)
	}
}

func validateTargetDate(startDate string, targetDate *string) error {
	if targetDate == nil {
		return nil
	}
	if err := validation.Date("target_date", *targetDate); err != nil {
		return err
	}
	if *targetDate < startDate {
		return validation.Newf("target_date", "must not be before start_date")
	}
	return nil
}
