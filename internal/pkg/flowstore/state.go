package flowstore

import (
	"sort"

	"github.com/DanceLinkHQ/DanceLink/app/models"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/recommend"
)

// AccountData is the persisted slice of the account form. The password is
// intentionally never part of the stored state.
type AccountData struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PlanSelection is the plan currently attached to the flow, annotated with
// the derived recommendation data valid at selection time.
type PlanSelection struct {
	Plan            models.Plan `json:"plan"`
	IsRecommended   bool        `json:"is_recommended"`
	MatchedFeatures int         `json:"matched_features"`
}

// RegistrationFlowState is the durable aggregate describing progress through
// the registration wizard.
type RegistrationFlowState struct {
	SelectedFeatures []string       `json:"selected_features"`
	RecommendedPlan  *PlanSelection `json:"recommended_plan"`
	AccountData      *AccountData   `json:"account_data"`
	PaymentCompleted bool           `json:"payment_completed"`
	BillingCycle     string         `json:"billing_cycle"`

	// PlanLocked is set by a manual plan selection and cleared whenever the
	// feature set changes; while set, auto-recommendation does not reassign
	// the plan.
	PlanLocked bool `json:"plan_locked"`

	// ActiveFlowID identifies the flow instance currently allowed to mutate
	// this state. A submission started by a superseded instance resolves as
	// a no-op instead of updating discarded state.
	ActiveFlowID string `json:"active_flow_id"`
}

// EmptyState is the canonical default returned when nothing is stored or the
// stored value cannot be parsed.
func EmptyState() RegistrationFlowState {
	return RegistrationFlowState{
		SelectedFeatures: []string{},
		BillingCycle:     recommend.CycleMonthly,
	}
}

// SetSelectedFeatures replaces the feature set, enforcing uniqueness and a
// stable order. A changed set unlocks the plan so auto-recommendation applies
// again.
func (s *RegistrationFlowState) SetSelectedFeatures(ids []string) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	if featureSetsEqual(s.SelectedFeatures, unique) {
		return
	}
	s.SelectedFeatures = unique
	s.PlanLocked = false
}

// ApplyRecommendation re-runs the engine output against the state. A nil
// result leaves the prior plan untouched; a manual selection stays in place
// until the feature set changes.
func (s *RegistrationFlowState) ApplyRecommendation(res *recommend.Result, plans []models.Plan) {
	if res == nil || s.PlanLocked {
		return
	}
	plan := res.RecommendedPlan(plans)
	if plan == nil {
		return
	}
	match := res.Matches[plan.Slug]
	s.RecommendedPlan = &PlanSelection{
		Plan:            *plan,
		IsRecommended:   match.IsRecommended,
		MatchedFeatures: match.MatchedFeatures,
	}
}

// SelectPlan records a manual plan choice. It always overrides the
// auto-recommendation; the informational annotations come from the latest
// recommendation pass and selecting does not alter them for other plans.
func (s *RegistrationFlowState) SelectPlan(plan models.Plan, res *recommend.Result) {
	sel := &PlanSelection{Plan: plan}
	if res != nil {
		match := res.Matches[plan.Slug]
		sel.IsRecommended = match.IsRecommended
		sel.MatchedFeatures = match.MatchedFeatures
	}
	s.RecommendedPlan = sel
	s.PlanLocked = true
}

// HasPlan reports whether the account-creation step is reachable.
func (s *RegistrationFlowState) HasPlan() bool {
	return s.RecommendedPlan != nil
}

// HasAccount reports whether the terminal step is reachable.
func (s *RegistrationFlowState) HasAccount() bool {
	return s.AccountData != nil
}

func featureSetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
