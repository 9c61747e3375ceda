package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/textutil"
	"github.com/templui/fittrack/internal/validation"
)

type ExerciseInput struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	Equipment   string `json:"equipment"`
	Global      bool   `json:"global"`
}

func (in *ExerciseInput) validate() error {
	in.Name = textutil.Title(strings.TrimSpace(in.Name))
	in.Equipment = strings.TrimSpace(in.Equipment)

	err := validation.First(
		validation.Required("name", in.Name),
		validation.MaxLen("name", in.Name, 200),
		validation.MaxLen("equipment", in.Equipment, 64),
	)
	if err != nil {
		return err
	}
	if !model.ValidMuscleGroup(in.MuscleGroup) {
		return validation.Newf("muscle_group", "must be one of %s", strings.Join(model.MuscleGroups, ", "))
	}
	return nil
}

type ExerciseService struct {
	repo repository.ExerciseRepository
}

func NewExerciseService(repo repository.ExerciseRepository) *ExerciseService {
	return &ExerciseService{repo: repo}
}

func (s *ExerciseService) Search(userID, q, muscleGroup string) ([]*model.Exercise, error) {
	if muscleGroup != "" && !model.ValidMuscleGroup(muscleGroup) {
		return nil, validation.Newf("muscle_group", "unknown muscle group %q", muscleGroup)
	}
	return s.repo.Search(userID, textutil.Normalize(q), muscleGroup)
}

func (s *ExerciseService) Create(user *model.User, in ExerciseInput) (*model.Exercise, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Global && !user.IsAdmin() {
		return nil, ErrForbidden
	}

	exercise := s.newExercise(in)
	if !in.Global {
		exercise.OwnerID = &user.ID
	}

	if err := s.repo.Create(exercise); err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return exercise, nil
}

// Get returns a global exercise or one of the user's own.
func (s *ExerciseService) Get(user *model.User, id string) (*model.Exercise, error) {
	exercise, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	if !exercise.IsGlobal() && !exercise.OwnedBy(user.ID) && !user.IsAdmin() {
		return nil, repository.ErrExerciseNotFound
	}
	return exercise, nil
}

func (s *ExerciseService) Delete(user *model.User, id string) error {
	exercise, err := s.Get(user, id)
	if err != nil {
		return err
	}
	if !exercise.OwnedBy(user.ID) && !user.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(id)
}

// SeedGlobal inserts missing global exercises and returns how many were added.
func (s *ExerciseService) SeedGlobal(exercises []ExerciseInput) (int, error) {
	added := 0
	for _, in := range exercises {
		if err := in.validate(); err != nil {
			return added, fmt.Errorf("seed exercise %q: %w", in.Name, err)
		}

		_, err := s.repo.GlobalByName(textutil.Normalize(in.Name))
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrExerciseNotFound) {
			return added, err
		}

		if err := s.repo.Create(s.newExercise(in)); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *ExerciseService) newExercise(in ExerciseInput) *model.Exercise {
	return &model.Exercise{
		ID:          uuid.New().String(),
		Name:        in.Name,
		SearchName:  textutil.Normalize(in.Name),
		MuscleGroup: in.MuscleGroup,
		Equipment:   in.Equipment,
		CreatedAt:   time.Now(),
	}
}
