package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/validation"
)

// MaxRangeDays bounds every from..to listing.
const MaxRangeDays = 92

// MealInput logs a food (FoodID, Quantity, Unit), a recipe (RecipeID,
// Servings) or a manual item (Name, Calories and macros).
type MealInput struct {
	LogDate  string   `json:"log_date"`
	MealType string   `json:"meal_type"`
	FoodID   *string  `json:"food_id"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	RecipeID *string  `json:"recipe_id"`
	Servings float64  `json:"servings"`
	Name     string   `json:"name"`
	Calories *float64 `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FiberG   float64  `json:"fiber_g"`
}

// MealUpdate changes an entry; nil fields are kept.
type MealUpdate struct {
	LogDate  *string  `json:"log_date"`
	MealType *string  `json:"meal_type"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
}

type MealService struct {
	repo          repository.MealRepository
	foodService   *FoodService
	recipeService *RecipeService
}

func NewMealService(repo repository.MealRepository, foodService *FoodService, recipeService *RecipeService) *MealService {
	return &MealService{repo: repo, foodService: foodService, recipeService: recipeService}
}

func (s *MealService) Create(user *model.User, in MealInput) (*model.MealEntry, error) {
	err := validation.First(
		validation.Date("log_date", in.LogDate),
		validateMealType(in.MealType),
	)
	if err != nil {
		return nil, err
	}

	entry := &model.MealEntry{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		LogDate:   in.LogDate,
		MealType:  in.MealType,
		CreatedAt: time.Now(),
	}

	switch {
	case in.FoodID != nil && in.RecipeID != nil:
		return nil, validation.Newf("food_id", "give either food_id or recipe_id, not both")
	case in.FoodID != nil:
		entry.FoodID = in.FoodID
		err = s.fillFromFood(user, entry, in.Quantity, in.Unit)
	case in.RecipeID != nil:
		entry.RecipeID = in.RecipeID
		err = s.fillFromRecipe(user, entry, in.Servings)
	default:
		err = fillManual(entry, in)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to create meal entry: %w", err)
	}
	return entry, nil
}

func (s *MealService) Day(userID, date string) (*model.MealDay, error) {
	if err := validation.Date("date", date); err != nil {
		return nil, err
	}

	entries, err := s.repo.ByDate(userID, date)
	if err != nil {
		return nil, err
	}
	return model.NewMealDay(date, entries), nil
}

func (s *MealService) Range(userID, from, to string) ([]*model.MealEntry, error) {
	if err := validation.DateRange(from, to, MaxRangeDays); err != nil {
		return nil, err
	}
	return s.repo.Range(userID, from, to)
}

// Summary returns one total per day from..to, zero filled.
func (s *MealService) Summary(userID, from, to string) ([]model.DailyTotal, error) {
	entries, err := s.Range(userID, from, to)
	if err != nil {
		return nil, err
	}
	return model.DailyTotals(from, to, entries), nil
}

// Update recomputes the macro snapshot from the current food or recipe. Entries
// whose source is gone, and manual entries, are scaled by the quantity change.
func (s *MealService) Update(user *model.User, id string, in MealUpdate) (*model.MealEntry, error) {
	entry, err := s.repo.ByID(user.ID, id)
	if err != nil {
		return nil, err
	}

	if in.LogDate != nil {
		if err := validation.Date("log_date", *in.LogDate); err != nil {
			return nil, err
		}
		entry.LogDate = *in.LogDate
	}
	if in.MealType != nil {
		if err := validateMealType(*in.MealType); err != nil {
			return nil, err
		}
		entry.MealType = *in.MealType
	}

	quantity, unit := entry.Quantity, entry.Unit
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if in.Unit != nil {
		unit = *in.Unit
	}

	switch {
	case entry.FoodID != nil:
		err = s.fillFromFood(user, entry, quantity, unit)
	case entry.RecipeID != nil:
		if unit != model.UnitServing {
			return nil, validation.Newf("unit", "recipe entries are logged in servings")
		}
		err = s.fillFromRecipe(user, entry, quantity)
	default:
		err = rescale(entry, quantity, unit)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *MealService) Delete(userID, id string) error {
	return s.repo.Delete(userID, id)
}

func (s *MealService) fillFromFood(user *model.User, entry *model.MealEntry, quantity float64, unit string) error {
	food, err := s.foodService.Get(user, *entry.FoodID)
	if err != nil {
		return err
	}

	grams, macros, err := food.MacrosFor(quantity, unit)
	if err != nil {
		return unitError(err)
	}

	entry.Name = food.Name
	entry.Quantity = quantity
	entry.Unit = unit
	entry.Grams = grams
	entry.SetMacros(macros)
	return nil
}

func (s *MealService) fillFromRecipe(user *model.User, entry *model.MealEntry, servings float64) error {
	if servings <= 0 {
		return validation.Newf("servings", "must be greater than 0")
	}

	recipe, err := s.recipeService.Get(user.ID, *entry.RecipeID)
	if err != nil {
		return err
	}

	factor := servings / float64(recipe.Servings)
	var grams float64
	for _, ing := range recipe.Ingredients {
		grams += ing.Grams
	}

	entry.Name = recipe.Name
	entry.Quantity = servings
	entry.Unit = model.UnitServing
	entry.Grams = roundTo1(grams * factor)
	entry.SetMacros(recipe.Total.Scale(factor).Rounded())
	return nil
}

func fillManual(entry *model.MealEntry, in MealInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Calories == nil {
		return validation.Newf("food_id", "give food_id, recipe_id or a manual name and calories")
	}

	macros := model.Macros{Calories: *in.Calories, ProteinG: in.ProteinG, CarbsG: in.CarbsG, FatG: in.FatG, FiberG: in.FiberG}
	err := validation.First(
		validation.MaxLen("name", name, 200),
		validation.NonNegative("calories", macros.Calories),
		validation.NonNegative("protein_g", macros.ProteinG),
		validation.NonNegative("carbs_g", macros.CarbsG),
		validation.NonNegative("fat_g", macros.FatG),
		validation.NonNegative("fiber_g", macros.FiberG),
	)
	if err != nil {
		return err
	}

	entry.Name = name
	entry.Quantity = 1
	entry.Unit = model.UnitServing
	if in.Quantity > 0 {
		entry.Quantity = in.Quantity
	}
	entry.SetMacros(macros.Rounded())
	return nil
}

func rescale(entry *model.MealEntry, quantity float64, unit string) error {
	if unit != entry.Unit {
		return validation.Newf("unit", "unit of this entry cannot be changed")
	}
	if quantity <= 0 {
		return unitError(model.ErrInvalidQuantity)
	}

	factor := quantity / entry.Quantity
	entry.Grams = roundTo1(entry.Grams * factor)
	entry.SetMacros(entry.Macros().Scale(factor).Rounded())
	entry.Quantity = quantity
	return nil
}

func validateMealType(t string) error {
	if !model.ValidMealType(t) {
		return validation.Newf("meal_type", "must be one of %s", strings.Join(model.MealTypes, ", "))
	}
	return nil
}

// unitError reports conversion failures against the field the client sent.
func unitError(err error) error {
	if err == model.ErrInvalidQuantity {
		return validation.Field("quantity", err)
	}
	return validation.Field("unit", err)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
