package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanceLinkHQ/DanceLink/app/models"
)

func testPlans(tiers ...string) []models.Plan {
	plans := make([]models.Plan, 0, len(tiers))
	for i, tier := range tiers {
		price := float64(i * 10)
		plans = append(plans, models.Plan{
			ID:           uint(i + 1),
			Slug:         tier,
			Name:         tier,
			Tier:         tier,
			MonthlyPrice: price,
			YearlyPrice:  price * 10,
		})
	}
	return plans
}

func TestRecommendEmptySelection(t *testing.T) {
	res := Recommend(nil, testPlans("free", "silver", "gold"))
	assert.Nil(t, res)
}

func TestRecommendEmptyCatalog(t *testing.T) {
	res := Recommend([]string{"enroll_courses"}, nil)
	assert.Nil(t, res)
}

func TestRecommendFreeFeature(t *testing.T) {
	// A free-tier feature recommends the free plan, while higher plans still
	// cover it in their coverage counts.
	plans := testPlans("free", "silver", "gold")
	res := Recommend([]string{"enroll_courses"}, plans)
	require.NotNil(t, res)

	assert.Equal(t, TierFree, res.RequiredTier)
	assert.Equal(t, "free", res.RecommendedSlug)
	assert.True(t, res.Matches["free"].IsRecommended)
	assert.False(t, res.Matches["gold"].IsRecommended)
	assert.Equal(t, 1, res.Matches["gold"].MatchedFeatures)
}

func TestRecommendCheapestSufficient(t *testing.T) {
	// A gold feature recommends gold, not platinum, even though platinum
	// also covers it.
	plans := testPlans("free", "silver", "gold", "platinum")
	res := Recommend([]string{"issue_certificates"}, plans)
	require.NotNil(t, res)

	assert.Equal(t, TierGold, res.RequiredTier)
	assert.Equal(t, "gold", res.RecommendedSlug)
	assert.True(t, res.Matches["gold"].IsRecommended)
	assert.False(t, res.Matches["platinum"].IsRecommended)
	assert.Equal(t, 1, res.Matches["platinum"].MatchedFeatures)
	assert.Equal(t, 0, res.Matches["free"].MatchedFeatures)
}

func TestRecommendTieBreakByCatalogOrder(t *testing.T) {
	plans := []models.Plan{
		{Slug: "gold-a", Tier: "gold"},
		{Slug: "gold-b", Tier: "gold"},
	}
	res := Recommend([]string{"issue_certificates"}, plans)
	require.NotNil(t, res)

	assert.Equal(t, "gold-a", res.RecommendedSlug)
	assert.True(t, res.Matches["gold-a"].IsRecommended)
	assert.False(t, res.Matches["gold-b"].IsRecommended)
}

func TestRecommendNoSufficientPlan(t *testing.T) {
	// Catalog without the required tier: coverage counts are still computed
	// but no plan is recommended.
	plans := testPlans("free", "silver")
	res := Recommend([]string{"seller_analytics"}, plans)
	require.NotNil(t, res)

	assert.Equal(t, TierPlatinum, res.RequiredTier)
	assert.Empty(t, res.RecommendedSlug)
	assert.Nil(t, res.RecommendedPlan(plans))
}

func TestRequiredTierMonotonic(t *testing.T) {
	selected := []string{}
	prev := RequiredTier(selected)
	for _, f := range Catalog {
		selected = append(selected, f.ID)
		cur := RequiredTier(selected)
		assert.GreaterOrEqual(t, TierRank(cur), TierRank(prev),
			"adding %s lowered the required tier", f.ID)
		prev = cur
	}
}

func TestRecommendIdempotent(t *testing.T) {
	plans := testPlans("free", "silver", "gold", "platinum")
	selected := []string{"book_professionals", "create_courses"}

	first := Recommend(selected, plans)
	second := Recommend(selected, plans)
	require.NotNil(t, first)
	require.NotNil(t, second)

	assert.Equal(t, first.RequiredTier, second.RequiredTier)
	assert.Equal(t, first.RecommendedSlug, second.RecommendedSlug)
	assert.Equal(t, first.Matches, second.Matches)
}

func TestRecommendUnknownFeatureTreatedAsFree(t *testing.T) {
	plans := testPlans("free", "gold")
	res := Recommend([]string{"mystery_feature"}, plans)
	require.NotNil(t, res)

	assert.Equal(t, TierFree, res.RequiredTier)
	assert.Equal(t, "free", res.RecommendedSlug)
}

func TestRecommendLeavesPlansUntouched(t *testing.T) {
	plans := testPlans("free", "gold")
	before := make([]models.Plan, len(plans))
	copy(before, plans)

	_ = Recommend([]string{"issue_certificates"}, plans)
	assert.Equal(t, before, plans)
}
