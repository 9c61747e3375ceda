package service

import (
	"math"

	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/validation"
)

// Dashboard is everything the home screen shows for one day.
type Dashboard struct {
	Date          string                `json:"date"`
	Nutrition     model.Macros          `json:"nutrition"`
	CalorieTarget *float64              `json:"calorie_target"`
	LatestWeight  *model.WeightLog      `json:"latest_weight"`
	Workouts      *model.WorkoutSummary `json:"workouts"`
	Goals         []*model.GoalProgress `json:"goals"`
	Layout        []*model.WidgetSlot   `json:"layout"`
}

// LayoutInput is the body of a layout replacement.
type LayoutInput struct {
	Widgets []*model.WidgetSlot `json:"widgets"`
}

type DashboardService struct {
	layoutRepository repository.LayoutRepository
	userService      *UserService
	mealService      *MealService
	weightService    *WeightService
	workoutService   *WorkoutService
	goalService      *GoalService
}

func NewDashboardService(
	layoutRepository repository.LayoutRepository,
	userService *UserService,
	mealService *MealService,
	weightService *WeightService,
	workoutService *WorkoutService,
	goalService *GoalService,
) *DashboardService {
	return &DashboardService{
		layoutRepository: layoutRepository,
		userService:      userService,
		mealService:      mealService,
		weightService:    weightService,
		workoutService:   workoutService,
		goalService:      goalService,
	}
}

func (s *DashboardService) Dashboard(userID, date string) (*Dashboard, error) {
	if date == "" {
		date = model.Today()
	}
	if err := validation.Date("date", date); err != nil {
		return nil, err
	}

	day, err := s.mealService.Day(userID, date)
	if err != nil {
		return nil, err
	}
	latest, err := s.latestWeight(userID, date)
	if err != nil {
		return nil, err
	}
	workouts, err := s.workoutService.Week(userID, date)
	if err != nil {
		return nil, err
	}
	goals, err := s.goalService.ActiveProgress(userID, date)
	if err != nil {
		return nil, err
	}
	target, err := s.calorieTarget(userID, goals)
	if err != nil {
		return nil, err
	}
	layout, err := s.Layout(userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Date:          date,
		Nutrition:     day.Totals,
		CalorieTarget: target,
		LatestWeight:  latest,
		Workouts:      workouts,
		Goals:         goals,
		Layout:        layout,
	}, nil
}

// latestWeight returns the last entry up to date with the trend over the
// preceding 30 days.
func (s *DashboardService) latestWeight(userID, date string) (*model.WeightLog, error) {
	logs, err := s.weightService.List(userID, model.AddDays(date, -29), date)
	if err != nil {
		return nil, err
	}
	if len(logs) > 0 {
		return logs[len(logs)-1], nil
	}

	latest, err := s.weightService.Latest(userID, date)
	if err != nil || latest == nil {
		return nil, err
	}
	latest.TrendKg = latest.WeightKg
	return latest, nil
}

// calorieTarget prefers an active daily calories goal and falls back to TDEE.
func (s *DashboardService) calorieTarget(userID string, goals []*model.GoalProgress) (*float64, error) {
	for _, p := range goals {
		if p.Goal.Type == model.GoalDailyCalories {
			target := p.Goal.TargetValue
			return &target, nil
		}
	}

	account, err := s.userService.Account(userID)
	if err != nil {
		return nil, err
	}
	if account.TDEE <= 0 {
		return nil, nil
	}
	tdee := math.Round(account.TDEE)
	return &tdee, nil
}

// Layout returns the stored widget order, or the default one.
func (s *DashboardService) Layout(userID string) ([]*model.WidgetSlot, error) {
	layout, err := s.layoutRepository.Layout(userID)
	if err != nil {
		return nil, err
	}
	if len(layout) == 0 {
		return model.DefaultLayout(userID), nil
	}
	return layout, nil
}

// SaveLayout replaces the layout. The widgets must be a permutation of the
// known widgets.
func (s *DashboardService) SaveLayout(userID string, in LayoutInput) ([]*model.WidgetSlot, error) {
	if err := model.ValidateLayout(in.Widgets); err != nil {
		return nil, validation.Field("widgets", err)
	}

	for _, slot := range in.Widgets {
		slot.UserID = userID
	}
	model.Renumber(in.Widgets)

	if err := s.layoutRepository.Save(userID, in.Widgets); err != nil {
		return nil, err
	}
	return in.Widgets, nil
}

// MoveWidget moves the widget at index from to index to.
func (s *DashboardService) MoveWidget(userID string, from, to int) ([]*model.WidgetSlot, error) {
	layout, err := s.Layout(userID)
	if err != nil {
		return nil, err
	}

	moved, err := model.MoveWidget(layout, from, to)
	if err != nil {
		return nil, validation.Field("index", err)
	}

	if err := s.layoutRepository.Save(userID, moved); err != nil {
		return nil, err
	}
	return moved, nil
}
