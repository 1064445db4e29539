package recommend

import (
	"github.com/DanceLinkHQ/DanceLink/app/models"
)

// PlanMatch carries the derived, display-only annotations for one plan.
// MatchedFeatures is a coverage count: how many selected features the plan's
// tier is sufficient for, not an exact-tier match.
type PlanMatch struct {
	Slug            string `json:"slug"`
	MatchedFeatures int    `json:"matched_features"`
	IsRecommended   bool   `json:"is_recommended"`
}

// Result is the outcome of one recommendation pass. Fetched plans stay
// untouched; all derived data is keyed by plan slug here.
type Result struct {
	RequiredTier    Tier                 `json:"required_tier"`
	RecommendedSlug string               `json:"recommended_slug"`
	Matches         map[string]PlanMatch `json:"matches"`
}

// RequiredTier computes the maximum tier across the selected features.
// Adding a feature can only keep or raise the result, never lower it.
func RequiredTier(selected []string) Tier {
	required := TierFree
	for _, id := range selected {
		if tier := RequiredTierFor(id); TierRank(tier) > TierRank(required) {
			required = tier
		}
	}
	return required
}

// Recommend maps the selected feature set and the plan catalog to the
// cheapest sufficient plan. An empty selection or empty catalog produces no
// result so the caller keeps whatever it had before.
//
// The recommended plan is the first catalog plan whose tier equals the
// required tier exactly; higher tiers also cover the selection but are never
// recommended over the cheapest sufficient one.
func Recommend(selected []string, plans []models.Plan) *Result {
	if len(selected) == 0 || len(plans) == 0 {
		return nil
	}

	required := RequiredTier(selected)

	res := &Result{
		RequiredTier: required,
		Matches:      make(map[string]PlanMatch, len(plans)),
	}

	for _, plan := range plans {
		planTier := NormalizeTier(plan.Tier)

		matched := 0
		for _, id := range selected {
			if Covers(planTier, RequiredTierFor(id)) {
				matched++
			}
		}

		recommended := false
		if planTier == required && res.RecommendedSlug == "" {
			recommended = true
			res.RecommendedSlug = plan.Slug
		}

		res.Matches[plan.Slug] = PlanMatch{
			Slug:            plan.Slug,
			MatchedFeatures: matched,
			IsRecommended:   recommended,
		}
	}

	return res
}

// RecommendedPlan resolves the recommended slug back to the catalog plan.
// Returns nil when the result carries no recommendation (e.g. the catalog
// had no plan at the required tier).
func (r *Result) RecommendedPlan(plans []models.Plan) *models.Plan {
	if r == nil || r.RecommendedSlug == "" {
		return nil
	}
	for i := range plans {
		if plans[i].Slug == r.RecommendedSlug {
			p := plans[i]
			return &p
		}
	}
	return nil
}
