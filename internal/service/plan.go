package service

import (
	"context"
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

const maxPlanExercises = 50

var ErrEmptyPlan = errors.New("plan needs at least one exercise")

type PlanInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Exercises   []PlanExerciseInput `json:"exercises"`
}

type PlanExerciseInput struct {
	ExerciseID *string `json:"exercise_id"`
	Name       string  `json:"name"`
	TargetSets *int    `json:"target_sets"`
	TargetReps *int    `json:"target_reps"`
}

type PlanService struct {
	planRepository    repository.PlanRepository
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	exerciseService   *ExerciseService
	workoutService    *WorkoutService
	emailService      *EmailService
}

func NewPlanService(
	planRepository repository.PlanRepository,
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	exerciseService *ExerciseService,
	workoutService *WorkoutService,
	emailService *EmailService,
) *PlanService {
	return &PlanService{
		planRepository:    planRepository,
		userRepository:    userRepository,
		profileRepository: profileRepository,
		exerciseService:   exerciseService,
		workoutService:    workoutService,
		emailService:      emailService,
	}
}

func (s *PlanService) Create(user *model.User, in PlanInput) (*model.WorkoutPlan, error) {
	now := time.Now()
	plan := &model.WorkoutPlan{
		ID:        uuid.New().String(),
		OwnerID:   user.ID,
		Status:    model.PlanStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(user, plan, in); err != nil {
		return nil, err
	}

	if err := s.planRepository.Create(plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return plan, nil
}

// List returns the user's own plans in any status.
func (s *PlanService) List(userID string) ([]*model.WorkoutPlan, error) {
	return s.planRepository.ByOwner(userID)
}

// Public returns every approved plan.
func (s *PlanService) Public() ([]*model.WorkoutPlan, error) {
	return s.planRepository.ByStatus(model.PlanStatusApproved)
}

// Get returns a plan the user may read. Others' unapproved plans are reported
// as not found.
func (s *PlanService) Get(user *model.User, id string) (*model.WorkoutPlan, error) {
	plan, err := s.planRepository.ByID(id)
	if err != nil {
		return nil, err
	}
	if !plan.VisibleTo(user) {
		return nil, repository.ErrPlanNotFound
	}
	return plan, nil
}

// Update edits an own plan. Any edit sends the plan back to draft; plans under
// review cannot be edited.
func (s *PlanService) Update(user *model.User, id string, in PlanInput) (*model.WorkoutPlan, error) {
	plan, err := s.owned(user, id)
	if err != nil {
		return nil, err
	}
	from := plan.Status
	if err := plan.ResetToDraft(); err != nil {
		return nil, err
	}
	if err := s.apply(user, plan, in); err != nil {
		return nil, err
	}

	plan.UpdatedAt = time.Now()
	if err := s.planRepository.Update(plan, from); err != nil {
		return nil, transitionError(err)
	}
	return plan, nil
}

func (s *PlanService) Delete(user *model.User, id string) error {
	if _, err := s.owned(user, id); err != nil {
		return err
	}
	return s.planRepository.Delete(user.ID, id)
}

// Submit sends a draft or rejected plan for review.
func (s *PlanService) Submit(user *model.User, id string) (*model.WorkoutPlan, error) {
	plan, err := s.owned(user, id)
	if err != nil {
		return nil, err
	}
	if len(plan.Exercises) == 0 {
		return nil, validation.Field("exercises", ErrEmptyPlan)
	}

	from := plan.Status
	if err := plan.Submit(); err != nil {
		return nil, err
	}
	plan.UpdatedAt = time.Now()
	if err := s.planRepository.UpdateStatus(plan, from); err != nil {
		return nil, transitionError(err)
	}
	return plan, nil
}

// Copy duplicates a readable plan into a new draft owned by user.
func (s *PlanService) Copy(user *model.User, id string) (*model.WorkoutPlan, error) {
	source, err := s.Get(user, id)
	if err != nil {
		return nil, err
	}

	in := PlanInput{Name: source.Name, Description: source.Description}
	for _, ex := range source.Exercises {
		in.Exercises = append(in.Exercises, PlanExerciseInput{
			ExerciseID: s.visibleExercise(user, ex.ExerciseID),
			Name:       ex.Name,
			TargetSets: ex.TargetSets,
			TargetReps: ex.TargetReps,
		})
	}
	return s.Create(user, in)
}

// Start logs a strength workout on logDate prefilled from the plan.
func (s *PlanService) Start(user *model.User, id, logDate string) (*model.Workout, error) {
	plan, err := s.Get(user, id)
	if err != nil {
		return nil, err
	}
	if logDate == "" {
		logDate = model.Today()
	}

	in := WorkoutInput{
		LogDate: logDate,
		Name:    plan.Name,
		Type:    model.WorkoutStrength,
	}
	for _, ex := range plan.Exercises {
		line := WorkoutLineInput{
			ExerciseID: s.visibleExercise(user, ex.ExerciseID),
			Name:       ex.Name,
			Sets:       model.DefaultPlanSets,
		}
		if ex.TargetSets != nil {
			line.Sets = *ex.TargetSets
		}
		if ex.TargetReps != nil {
			line.Reps = *ex.TargetReps
		}
		in.Exercises = append(in.Exercises, line)
	}

	return s.workoutService.create(user, in, &plan.ID)
}

// Pending lists plans awaiting review, oldest first.
func (s *PlanService) Pending(admin *model.User) ([]*model.WorkoutPlan, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.planRepository.ByStatus(model.PlanStatusPending)
}

// Review approves or rejects a pending plan and emails the owner. A rejection
// must carry a note.
func (s *PlanService) Review(ctx context.Context, admin *model.User, id, decision, note string) (*model.WorkoutPlan, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}

	note = strings.TrimSpace(note)
	switch decision {
	case model.PlanDecisionApprove:
	case model.PlanDecisionReject:
		if note == "" {
			return nil, validation.Newf("note", "is required when rejecting a plan")
		}
	default:
		return nil, validation.Newf("decision", "must be approve or reject")
	}
	if err := validation.MaxLen("note", note, 1000); err != nil {
		return nil, err
	}

	plan, err := s.planRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := plan.Review(decision, note, admin.ID, now); err != nil {
		return nil, err
	}
	plan.UpdatedAt = now
	if err := s.planRepository.UpdateStatus(plan, model.PlanStatusPending); err != nil {
		return nil, transitionError(err)
	}

	s.notifyOwner(ctx, plan)
	return plan, nil
}

func (s *PlanService) notifyOwner(ctx context.Context, plan *model.WorkoutPlan) {
	owner, err := s.userRepository.ByID(plan.OwnerID)
	if err != nil {
		slog.Error("failed to load plan owner", "error", err, "plan_id", plan.ID)
		return
	}

	name := ""
	if profile, err := s.profileRepository.ByUserID(owner.ID); err == nil {
		name = profile.Name
	}

	if err := s.emailService.SendPlanReviewedEmail(ctx, owner.Email, name, plan.Name, plan.Status, plan.ReviewNote); err != nil {
		slog.Error("failed to send plan review email", "error", err, "plan_id", plan.ID)
	}
}

// owned loads a plan the user owns. A readable plan of someone else is
// forbidden, anything else is not found.
func (s *PlanService) owned(user *model.User, id string) (*model.WorkoutPlan, error) {
	plan, err := s.planRepository.ByID(id)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID == user.ID {
		return plan, nil
	}
	if plan.VisibleTo(user) {
		return nil, ErrForbidden
	}
	return nil, repository.ErrPlanNotFound
}

func (s *PlanService) apply(user *model.User, plan *model.WorkoutPlan, in PlanInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	err := validation.First(
		validation.Required("name", in.Name),
		validation.MaxLen("name", in.Name, 200),
		validation.MaxLen("description", in.Description, 2000),
	)
	if err != nil {
		return err
	}
	if len(in.Exercises) > maxPlanExercises {
		return validation.Newf("exercises", "at most %d exercises", maxPlanExercises)
	}

	exercises := make([]*model.PlanExercise, 0, len(in.Exercises))
	for i, ex := range in.Exercises {
		field := fmt.Sprintf("exercises[%d]", i)
		name := strings.TrimSpace(ex.Name)

		if ex.ExerciseID != nil {
			exercise, err := s.exerciseService.Get(user, *ex.ExerciseID)
			if err != nil {
				return validation.Newf(field+".exercise_id", "unknown exercise")
			}
			if name == "" {
				name = exercise.Name
			}
		}

		if err := validation.Required(field+".name", name); err != nil {
			return err
		}
		if ex.TargetSets != nil {
			if err := validation.IntRange(field+".target_sets", *ex.TargetSets, 1, 20); err != nil {
				return err
			}
		}
		if ex.TargetReps != nil {
			if err := validation.IntRange(field+".target_reps", *ex.TargetReps, 1, 100); err != nil {
				return err
			}
		}

		exercises = append(exercises, &model.PlanExercise{
			ID:         uuid.New().String(),
			PlanID:     plan.ID,
			ExerciseID: ex.ExerciseID,
			Name:       name,
			TargetSets: ex.TargetSets,
			TargetReps: ex.TargetReps,
			SortOrder:  i,
		})
	}

	plan.Name = in.Name
	plan.Description = in.Description
	plan.Exercises = exercises
	return nil
}

// visibleExercise drops references to catalog entries the user cannot see.
func (s *PlanService) visibleExercise(user *model.User, id *string) *string {
	if id == nil {
		return nil
	}
	if _, err := s.exerciseService.Get(user, *id); err != nil {
		return nil
	}
	return id
}

// transitionError reports a plan that left the expected status meanwhile.
func transitionError(err error) error {
	if errors.Is(err, repository.ErrPlanNotFound) {
		return model.ErrInvalidTransition
	}
	return err
}
