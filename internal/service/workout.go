package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/validation"
)

type WorkoutInput struct {
	LogDate        string             `json:"log_date"`
	Name           string             `json:"name"`
	Type           string             `json:"type"`
	DurationMin    int                `json:"duration_min"`
	CaloriesBurned *int               `json:"calories_burned"`
	Notes          string             `json:"notes"`
	Exercises      []WorkoutLineInput `json:"exercises"`
}

type WorkoutLineInput struct {
	ExerciseID  *string `json:"exercise_id"`
	Name        string  `json:"name"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	WeightKg    float64 `json:"weight_kg"`
	DurationSec int     `json:"duration_sec"`
}

type WorkoutService struct {
	repo            repository.WorkoutRepository
	exerciseService *ExerciseService
	weightService   *WeightService
}

func NewWorkoutService(repo repository.WorkoutRepository, exerciseService *ExerciseService, weightService *WeightService) *WorkoutService {
	return &WorkoutService{repo: repo, exerciseService: exerciseService, weightService: weightService}
}

func (s *WorkoutService) Create(user *model.User, in WorkoutInput) (*model.Workout, error) {
	return s.create(user, in, nil)
}

func (s *WorkoutService) create(user *model.User, in WorkoutInput, planID *string) (*model.Workout, error) {
	now := time.Now()
	workout := &model.Workout{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		PlanID:    planID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(user, workout, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(workout); err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}
	workout.VolumeKg = workout.Volume()
	return workout, nil
}

func (s *WorkoutService) Get(userID, id string) (*model.Workout, error) {
	return s.repo.ByID(userID, id)
}

// List returns workouts from..to, newest first.
func (s *WorkoutService) List(userID, from, to string) ([]*model.Workout, error) {
	if err := validation.DateRange(from, to, MaxRangeDays); err != nil {
		return nil, err
	}
	return s.repo.Range(userID, from, to)
}

// Update replaces the workout including its exercise lines.
func (s *WorkoutService) Update(user *model.User, id string, in WorkoutInput) (*model.Workout, error) {
	workout, err := s.repo.ByID(user.ID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(user, workout, in); err != nil {
		return nil, err
	}

	workout.UpdatedAt = time.Now()
	if err := s.repo.Update(workout); err != nil {
		return nil, err
	}
	workout.VolumeKg = workout.Volume()
	return workout, nil
}

func (s *WorkoutService) Delete(userID, id string) error {
	return s.repo.Delete(userID, id)
}

// Week summarises the 7 days ending at date.
func (s *WorkoutService) Week(userID, date string) (*model.WorkoutSummary, error) {
	from := model.AddDays(date, -6)
	workouts, err := s.repo.Range(userID, from, date)
	if err != nil {
		return nil, err
	}
	return model.NewWorkoutSummary(from, date, workouts), nil
}

func (s *WorkoutService) apply(user *model.User, workout *model.Workout, in WorkoutInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Type == "" {
		in.Type = model.WorkoutOther
	}

	err := validation.First(
		validation.Date("log_date", in.LogDate),
		validation.Required("name", in.Name),
		validation.MaxLen("name", in.Name, 200),
		validation.IntRange("duration_min", in.DurationMin, 0, 1440),
		validation.MaxLen("notes", in.Notes, 2000),
	)
	if err != nil {
		return err
	}
	if !model.ValidWorkoutType(in.Type) {
		return validation.Newf("type", "must be one of strength, cardio, hiit, yoga, other")
	}
	if in.CaloriesBurned != nil {
		if err := validation.IntRange("calories_burned", *in.CaloriesBurned, 0, 10000); err != nil {
			return err
		}
	}

	lines, err := s.lines(user, workout.ID, in.Exercises)
	if err != nil {
		return err
	}

	workout.LogDate = in.LogDate
	workout.Name = in.Name
	workout.Type = in.Type
	workout.DurationMin = in.DurationMin
	workout.Notes = in.Notes
	workout.Exercises = lines

	if in.CaloriesBurned != nil {
		workout.CaloriesBurned = *in.CaloriesBurned
		return nil
	}
	weightKg, err := s.weightService.LatestKg(user.ID, in.LogDate)
	if err != nil {
		return err
	}
	workout.CaloriesBurned = model.EstimateCalories(in.Type, weightKg, in.DurationMin)
	return nil
}

func (s *WorkoutService) lines(user *model.User, workoutID string, in []WorkoutLineInput) ([]*model.WorkoutExercise, error) {
	lines := make([]*model.WorkoutExercise, 0, len(in))
	for i, line := range in {
		field := fmt.Sprintf("exercises[%d]", i)
		name := strings.TrimSpace(line.Name)

		if line.ExerciseID != nil {
			exercise, err := s.exerciseService.Get(user, *line.ExerciseID)
			if err != nil {
				return nil, validation.Newf(field+".exercise_id", "unknown exercise")
			}
			if name == "" {
				name = exercise.Name
			}
		}

		err := validation.First(
			validation.Required(field+".name", name),
			validation.MaxLen(field+".name", name, 200),
			validation.IntRange(field+".sets", line.Sets, 0, 100),
			validation.IntRange(field+".reps", line.Reps, 0, 1000),
			validation.Range(field+".weight_kg", line.WeightKg, 0, 1000),
			validation.IntRange(field+".duration_sec", line.DurationSec, 0, 86400),
		)
		if err != nil {
			return nil, err
		}

		lines = append(lines, &model.WorkoutExercise{
			ID:          uuid.New().String(),
			WorkoutID:   workoutID,
			ExerciseID:  line.ExerciseID,
			Name:        name,
			Sets:        line.Sets,
			Reps:        line.Reps,
			WeightKg:    line.WeightKg,
			DurationSec: line.DurationSec,
			SortOrder:   i,
		})
	}
	return lines, nil
}
