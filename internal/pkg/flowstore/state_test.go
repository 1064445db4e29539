package flowstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanceLinkHQ/DanceLink/app/models"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/recommend"
)

func plansFixture() []models.Plan {
	return []models.Plan{
		{Slug: "free", Tier: "free"},
		{Slug: "silver", Tier: "silver", MonthlyPrice: 9},
		{Slug: "gold", Tier: "gold", MonthlyPrice: 19},
	}
}

func TestEmptyStateDefaults(t *testing.T) {
	state := EmptyState()
	assert.Empty(t, state.SelectedFeatures)
	assert.Nil(t, state.RecommendedPlan)
	assert.Nil(t, state.AccountData)
	assert.False(t, state.PaymentCompleted)
	assert.Equal(t, recommend.CycleMonthly, state.BillingCycle)
}

func TestSetSelectedFeaturesDeduplicates(t *testing.T) {
	state := EmptyState()
	state.SetSelectedFeatures([]string{"b", "a", "b", "", "a"})
	assert.Equal(t, []string{"a", "b"}, state.SelectedFeatures)
}

func TestSetSelectedFeaturesUnlocksPlan(t *testing.T) {
	state := EmptyState()
	state.SetSelectedFeatures([]string{"enroll_courses"})
	state.SelectPlan(plansFixture()[2], nil)
	require.True(t, state.PlanLocked)

	// Same set again: the manual choice stays locked.
	state.SetSelectedFeatures([]string{"enroll_courses"})
	assert.True(t, state.PlanLocked)

	// A different set unlocks.
	state.SetSelectedFeatures([]string{"enroll_courses", "create_courses"})
	assert.False(t, state.PlanLocked)
}

func TestApplyRecommendationKeepsPriorOnNilResult(t *testing.T) {
	plans := plansFixture()
	state := EmptyState()
	state.SetSelectedFeatures([]string{"enroll_courses"})
	state.ApplyRecommendation(recommend.Recommend(state.SelectedFeatures, plans), plans)
	require.NotNil(t, state.RecommendedPlan)
	prior := state.RecommendedPlan.Plan.Slug

	// Empty selection produces no result; prior assignment is untouched.
	state.ApplyRecommendation(recommend.Recommend(nil, plans), plans)
	require.NotNil(t, state.RecommendedPlan)
	assert.Equal(t, prior, state.RecommendedPlan.Plan.Slug)
}

func TestApplyRecommendationRespectsManualLock(t *testing.T) {
	plans := plansFixture()
	state := EmptyState()
	state.SetSelectedFeatures([]string{"enroll_courses"})
	state.SelectPlan(plans[2], recommend.Recommend(state.SelectedFeatures, plans))
	require.Equal(t, "gold", state.RecommendedPlan.Plan.Slug)

	state.ApplyRecommendation(recommend.Recommend(state.SelectedFeatures, plans), plans)
	assert.Equal(t, "gold", state.RecommendedPlan.Plan.Slug)
}

func TestSelectPlanCarriesAnnotations(t *testing.T) {
	plans := plansFixture()
	state := EmptyState()
	state.SetSelectedFeatures([]string{"enroll_courses"})
	res := recommend.Recommend(state.SelectedFeatures, plans)

	state.SelectPlan(plans[2], res)
	require.NotNil(t, state.RecommendedPlan)
	assert.False(t, state.RecommendedPlan.IsRecommended)
	assert.Equal(t, 1, state.RecommendedPlan.MatchedFeatures)
}
