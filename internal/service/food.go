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

// FoodInput carries per 100 g nutrient values. Global is honoured for admins only.
type FoodInput struct {
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Calories float64  `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   float64  `json:"fiber_g"`
	ServingG *float64 `json:"serving_g"`
	Global   bool     `json:"global"`
}

func (in *FoodInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)

	err := validation.First(
		validation.Required("name", in.Name),
		validation.MaxLen("name", in.Name, 200),
		validation.MaxLen("brand", in.Brand, 100),
		validation.NonNegative("calories", in.Calories),
		validation.NonNegative("protein_g", in.ProteinG),
		validation.NonNegative("carbs_g", in.CarbsG),
		validation.NonNegative("fat_g", in.FatG),
		validation.NonNegative("fiber_g", in.FiberG),
	)
	if err != nil {
		return err
	}

	if in.ProteinG+in.CarbsG+in.FatG+in.FiberG > 100 {
		return validation.Newf("macros", "protein, carbs, fat and fiber must not exceed 100 g per 100 g")
	}
	if in.ServingG != nil && *in.ServingG <= 0 {
		return validation.Newf("serving_g", "must be greater than 0")
	}
	return nil
}

func (in *FoodInput) apply(f *model.Food) {
	f.Name = in.Name
	f.SearchName = textutil.Normalize(in.Name)
	f.Brand = in.Brand
	f.Calories = in.Calories
	f.ProteinG = in.ProteinG
	f.CarbsG = in.CarbsG
	f.FatG = in.FatG
	f.FiberG = in.FiberG
	f.ServingG = in.ServingG
}

type FoodService struct {
	repo repository.FoodRepository
}

func NewFoodService(repo repository.FoodRepository) *FoodService {
	return &FoodService{repo: repo}
}

// Search matches name case and accent insensitively over global and own foods.
func (s *FoodService) Search(userID, q string, limit int) ([]*model.Food, error) {
	return s.repo.Search(userID, textutil.Normalize(q), clampLimit(limit, 20, 100))
}

func (s *FoodService) Create(user *model.User, in FoodInput) (*model.Food, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Global && !user.IsAdmin() {
		return nil, ErrForbidden
	}

	now := time.Now()
	food := &model.Food{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	if !in.Global {
		food.OwnerID = &user.ID
	}
	in.apply(food)

	if err := s.repo.Create(food); err != nil {
		return nil, fmt.Errorf("failed to create food: %w", err)
	}
	return food, nil
}

// Get returns a global food or one of the user's own.
func (s *FoodService) Get(user *model.User, id string) (*model.Food, error) {
	food, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	if !food.IsGlobal() && !food.OwnedBy(user.ID) && !user.IsAdmin() {
		return nil, repository.ErrFoodNotFound
	}
	return food, nil
}

func (s *FoodService) Update(user *model.User, id string, in FoodInput) (*model.Food, error) {
	food, err := s.editable(user, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	in.apply(food)
	if err := s.repo.Update(food); err != nil {
		return nil, err
	}
	return food, nil
}

func (s *FoodService) Delete(user *model.User, id string) error {
	if _, err := s.editable(user, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// editable loads a food the user may change: their own, or a global one for admins.
func (s *FoodService) editable(user *model.User, id string) (*model.Food, error) {
	food, err := s.Get(user, id)
	if err != nil {
		return nil, err
	}
	if food.OwnedBy(user.ID) || user.IsAdmin() {
		return food, nil
	}
	return nil, ErrForbidden
}

// SeedGlobal inserts global foods whose name is not yet present and returns
// how many were added.
func (s *FoodService) SeedGlobal(foods []FoodInput) (int, error) {
	added := 0
	for _, in := range foods {
		if err := in.validate(); err != nil {
			return added, fmt.Errorf("seed food %q: %w", in.Name, err)
		}

		_, err := s.repo.GlobalByName(textutil.Normalize(in.Name))
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrFoodNotFound) {
			return added, err
		}

		now := time.Now()
		food := &model.Food{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
		in.apply(food)
		if err := s.repo.Create(food); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
