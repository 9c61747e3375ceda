package model

import (
	"errors"
	"time"
)

const (
	PlanStatusDraft    = "draft"
	PlanStatusPending  = "pending"
	PlanStatusApproved = "approved"
	PlanStatusRejected = "rejected"

	PlanDecisionApprove = "approve"
	PlanDecisionReject  = "reject"

	DefaultPlanSets = 3
)

var ErrInvalidTransition = errors.New("invalid plan status transition")

type WorkoutPlan struct {
	ID          string     `db:"id" json:"id"`
	OwnerID     string     `db:"owner_id" json:"owner_id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	ReviewNote  string     `db:"review_note" json:"review_note,omitempty"`
	ReviewedBy  *string    `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	Exercises []*PlanExercise `db:"-" json:"exercises"`
}

type PlanExercise struct {
	ID         string  `db:"id" json:"id"`
	PlanID     string  `db:"plan_id" json:"-"`
	ExerciseID *string `db:"exercise_id" json:"exercise_id,omitempty"`
	Name       string  `db:"name" json:"name"`
	TargetSets *int    `db:"target_sets" json:"target_sets,omitempty"`
	TargetReps *int    `db:"target_reps" json:"target_reps,omitempty"`
	SortOrder  int     `db:"sort_order" json:"sort_order"`
}

// VisibleTo reports whether a user may read the plan.
func (p *WorkoutPlan) VisibleTo(user *User) bool {
	return p.Status == PlanStatusApproved || p.OwnerID == user.ID || user.IsAdmin()
}

// Editable reports whether the owner may change the plan. Pending plans are
// frozen while under review.
func (p *WorkoutPlan) Editable() bool {
	return p.Status != PlanStatusPending
}

// Submit moves a draft or rejected plan into review.
func (p *WorkoutPlan) Submit() error {
	if p.Status != PlanStatusDraft && p.Status != PlanStatusRejected {
		return ErrInvalidTransition
	}
	p.Status = PlanStatusPending
	return nil
}

// Review applies an admin decision to a pending plan.
func (p *WorkoutPlan) Review(decision, note, reviewerID string, at time.Time) error {
	if p.Status != PlanStatusPending {
		return ErrInvalidTransition
	}

	switch decision {
	case PlanDecisionApprove:
		p.Status = PlanStatusApproved
	case PlanDecisionReject:
		p.Status = PlanStatusRejected
	default:
		return ErrInvalidTransition
	}

	p.ReviewNote = note
	p.ReviewedBy = &reviewerID
	p.ReviewedAt = &at
	return nil
}

// ResetToDraft is applied on every edit; any previous review no longer holds.
func (p *WorkoutPlan) ResetToDraft() error {
	if !p.Editable() {
		return ErrInvalidTransition
	}
	p.Status = PlanStatusDraft
	p.ReviewedBy = nil
	p.ReviewedAt = nil
	return nil
}
