package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/markdown"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/textutil"
	"github.com/templui/fittrack/internal/validation"
)

const (
	maxRecipeIngredients = 100
	maxRecipeServings    = 100
)

type RecipeInput struct {
	Name         string            `json:"name"`
	Servings     int               `json:"servings"`
	Instructions string            `json:"instructions"`
	Ingredients  []IngredientInput `json:"ingredients"`
}

type IngredientInput struct {
	FoodID   string  `json:"food_id"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type RecipeService struct {
	recipeRepository repository.RecipeRepository
	foodRepository   repository.FoodRepository
	fileService      *FileService
	parser           *markdown.Parser
}

func NewRecipeService(
	recipeRepository repository.RecipeRepository,
	foodRepository repository.FoodRepository,
	fileService *FileService,
	parser *markdown.Parser,
) *RecipeService {
	return &RecipeService{
		recipeRepository: recipeRepository,
		foodRepository:   foodRepository,
		fileService:      fileService,
		parser:           parser,
	}
}

func (s *RecipeService) Create(ctx context.Context, userID string, in RecipeInput) (*model.Recipe, error) {
	foods, err := s.validate(userID, &in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recipe := &model.Recipe{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyRecipe(recipe, in)

	if err := s.recipeRepository.Create(recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, s.decorate(ctx, recipe, foods)
}

// Get returns an own recipe with macros computed from current food data.
func (s *RecipeService) Get(userID, id string) (*model.Recipe, error) {
	recipe, err := s.recipeRepository.ByID(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.computeMacros(recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Detail is Get plus rendered instructions and the image link.
func (s *RecipeService) Detail(ctx context.Context, userID, id string) (*model.Recipe, error) {
	recipe, err := s.recipeRepository.ByID(userID, id)
	if err != nil {
		return nil, err
	}
	return recipe, s.decorate(ctx, recipe, nil)
}

func (s *RecipeService) List(ctx context.Context, userID string) ([]*model.Recipe, error) {
	recipes, err := s.recipeRepository.Recipes(userID)
	if err != nil {
		return nil, err
	}

	foods, err := s.foodRepository.ByIDs(ingredientFoodIDs(recipes...))
	if err != nil {
		return nil, err
	}
	for _, recipe := range recipes {
		if err := s.decorate(ctx, recipe, foods); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

func (s *RecipeService) Update(ctx context.Context, userID, id string, in RecipeInput) (*model.Recipe, error) {
	recipe, err := s.recipeRepository.ByID(userID, id)
	if err != nil {
		return nil, err
	}

	foods, err := s.validate(userID, &in)
	if err != nil {
		return nil, err
	}

	applyRecipe(recipe, in)
	recipe.UpdatedAt = time.Now()
	if err := s.recipeRepository.Update(recipe); err != nil {
		return nil, err
	}
	return recipe, s.decorate(ctx, recipe, foods)
}

// Delete removes the recipe and its image. Meal entries keep their snapshot.
func (s *RecipeService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.recipeRepository.ByID(userID, id); err != nil {
		return err
	}

	if err := s.fileService.DeleteRecipeImage(ctx, id); err != nil {
		slog.Warn("failed to delete recipe image", "error", err, "recipe_id", id)
	}
	return s.recipeRepository.Delete(userID, id)
}

// Import creates a recipe from a markdown document with YAML frontmatter.
// Ingredient foods are referenced by id or by exact name.
func (s *RecipeService) Import(ctx context.Context, userID string, source []byte) (*model.Recipe, error) {
	doc, err := s.parser.ParseRecipe(source)
	if errors.Is(err, markdown.ErrNoFrontmatter) {
		return nil, validation.Field("document", err)
	}
	if err != nil {
		return nil, validation.Newf("document", "invalid recipe document: %v", err)
	}

	in := RecipeInput{
		Name:         doc.Name,
		Servings:     doc.Servings,
		Instructions: doc.Instructions,
	}
	for i, line := range doc.Ingredients {
		food, err := s.resolveFood(userID, line.Food)
		if err != nil {
			return nil, validation.Newf(fmt.Sprintf("ingredients[%d].food", i), "unknown food %q", line.Food)
		}
		in.Ingredients = append(in.Ingredients, IngredientInput{
			FoodID:   food.ID,
			Quantity: line.Quantity,
			Unit:     line.Unit,
		})
	}

	return s.Create(ctx, userID, in)
}

func (s *RecipeService) UploadImage(ctx context.Context, userID, id string, header *multipart.FileHeader) (*model.Recipe, error) {
	recipe, err := s.recipeRepository.ByID(userID, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.fileService.UploadRecipeImage(ctx, userID, recipe.ID, header); err != nil {
		return nil, err
	}
	return recipe, s.decorate(ctx, recipe, nil)
}

func (s *RecipeService) DeleteImage(ctx context.Context, userID, id string) error {
	if _, err := s.recipeRepository.ByID(userID, id); err != nil {
		return err
	}
	return s.fileService.DeleteRecipeImage(ctx, id)
}

// validate normalises the input and checks every ingredient against a food
// the user can see. It returns those foods keyed by id.
func (s *RecipeService) validate(userID string, in *RecipeInput) (map[string]*model.Food, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Servings == 0 {
		in.Servings = 1
	}

	err := validation.First(
		validation.Required("name", in.Name),
		validation.MaxLen("name", in.Name, 200),
		validation.IntRange("servings", in.Servings, 1, maxRecipeServings),
		validation.MaxLen("instructions", in.Instructions, 20000),
	)
	if err != nil {
		return nil, err
	}
	if len(in.Ingredients) > maxRecipeIngredients {
		return nil, validation.Newf("ingredients", "at most %d ingredients", maxRecipeIngredients)
	}

	ids := make([]string, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		ids = append(ids, ing.FoodID)
	}
	foods, err := s.foodRepository.ByIDs(ids)
	if err != nil {
		return nil, err
	}

	for i, ing := range in.Ingredients {
		field := fmt.Sprintf("ingredients[%d]", i)
		food, ok := foods[ing.FoodID]
		if !ok || (!food.IsGlobal() && !food.OwnedBy(userID)) {
			return nil, validation.Newf(field+".food_id", "unknown food")
		}
		if _, _, err := food.MacrosFor(ing.Quantity, ing.Unit); err != nil {
			if errors.Is(err, model.ErrInvalidQuantity) {
				return nil, validation.Field(field+".quantity", err)
			}
			return nil, validation.Field(field+".unit", err)
		}
	}
	return foods, nil
}

func (s *RecipeService) resolveFood(userID, ref string) (*model.Food, error) {
	ref = strings.TrimSpace(ref)
	if food, err := s.foodRepository.ByID(ref); err == nil {
		if food.IsGlobal() || food.OwnedBy(userID) {
			return food, nil
		}
	}
	return s.foodRepository.ByName(userID, textutil.Normalize(ref))
}

func (s *RecipeService) computeMacros(recipe *model.Recipe) error {
	foods, err := s.foodRepository.ByIDs(ingredientFoodIDs(recipe))
	if err != nil {
		return err
	}
	recipe.ComputeMacros(foods)
	return nil
}

// decorate fills macros, rendered instructions and the image URL. A nil
// foods map is loaded from the recipe's ingredients.
func (s *RecipeService) decorate(ctx context.Context, recipe *model.Recipe, foods map[string]*model.Food) error {
	if foods == nil {
		if err := s.computeMacros(recipe); err != nil {
			return err
		}
	} else {
		recipe.ComputeMacros(foods)
	}

	html, err := s.parser.Render(recipe.Instructions)
	if err != nil {
		return fmt.Errorf("failed to render instructions: %w", err)
	}
	recipe.InstructionsHTML = html

	image, err := s.fileService.RecipeImage(recipe.ID)
	if err != nil && !errors.Is(err, repository.ErrFileNotFound) {
		return err
	}
	recipe.ImageURL = s.fileService.URL(ctx, image)
	return nil
}

func applyRecipe(recipe *model.Recipe, in RecipeInput) {
	recipe.Name = in.Name
	recipe.Servings = in.Servings
	recipe.Instructions = in.Instructions
	recipe.Ingredients = make([]*model.RecipeIngredient, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		recipe.Ingredients[i] = &model.RecipeIngredient{
			ID:        uuid.New().String(),
			RecipeID:  recipe.ID,
			FoodID:    ing.FoodID,
			Quantity:  ing.Quantity,
			Unit:      ing.Unit,
			SortOrder: i,
		}
	}
}

func ingredientFoodIDs(recipes ...*model.Recipe) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			if !seen[ing.FoodID] {
				seen[ing.FoodID] = true
				ids = append(ids, ing.FoodID)
			}
		}
	}
	return ids
}
