package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanWorkflow(t *testing.T) {
	p := &WorkoutPlan{Status: PlanStatusDraft}
	now := time.Now()

	assert.ErrorIs(t, p.Review(PlanDecisionApprove, "", "admin", now), ErrInvalidTransition)

	require.NoError(t, p.Submit())
	assert.Equal(t, PlanStatusPending, p.Status)
	assert.False(t, p.Editable())
	assert.ErrorIs(t, p.Submit(), ErrInvalidTransition)
	assert.ErrorIs(t, p.ResetToDraft(), ErrInvalidTransition)

	require.NoError(t, p.Review(PlanDecisionReject, "too vague", "admin", now))
	assert.Equal(t, PlanStatusRejected, p.Status)
	assert.Equal(t, "too vague", p.ReviewNote)
	require.NotNil(t, p.ReviewedBy)
	assert.Equal(t, "admin", *p.ReviewedBy)

	require.NoError(t, p.Submit())
	require.NoError(t, p.Review(PlanDecisionApprove, "", "admin", now))
	assert.Equal(t, PlanStatusApproved, p.Status)

	require.NoError(t, p.ResetToDraft())
	assert.Equal(t, PlanStatusDraft, p.Status)
	assert.Nil(t, p.ReviewedBy)
}

func TestPlanReviewUnknownDecision(t *testing.T) {
	p := &WorkoutPlan{Status: PlanStatusPending}
	assert.ErrorIs(t, p.Review("maybe", "", "admin", time.Now()), ErrInvalidTransition)
	assert.Equal(t, PlanStatusPending, p.Status)
}

func TestPlanVisibleTo(t *testing.T) {
	owner := &User{ID: "owner", Role: RoleUser}
	other := &User{ID: "other", Role: RoleUser}
	admin := &User{ID: "admin", Role: RoleAdmin}

	p := &WorkoutPlan{OwnerID: "owner", Status: PlanStatusPending}
	assert.True(t, p.VisibleTo(owner))
	assert.False(t, p.VisibleTo(other))
	assert.True(t, p.VisibleTo(admin))

	p.Status = PlanStatusApproved
	assert.True(t, p.VisibleTo(other))
}
