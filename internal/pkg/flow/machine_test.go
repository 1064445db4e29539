package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DanceLinkHQ/DanceLink/app/models"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flowstore"
)

func emptyState() *flowstore.RegistrationFlowState {
	s := flowstore.EmptyState()
	return &s
}

func stateWithPlan() *flowstore.RegistrationFlowState {
	s := emptyState()
	s.RecommendedPlan = &flowstore.PlanSelection{
		Plan: models.Plan{Slug: "silver", Tier: "silver"},
	}
	return s
}

func stateWithAccount() *flowstore.RegistrationFlowState {
	s := stateWithPlan()
	s.AccountData = &flowstore.AccountData{
		Username: "tanzmaus", Email: "tanzmaus@example.com",
		FirstName: "Mina", LastName: "Koch",
	}
	return s
}

func TestResolveUnknownStepFallsBackToInitial(t *testing.T) {
	m := NewRegistrationMachine()

	tests := []string{"", "bogus", "PLANRECOMMENDATION", "admin"}
	for _, raw := range tests {
		assert.Equal(t, StepPlanRecommendation, m.Resolve(raw, emptyState()), "raw=%q", raw)
	}
}

func TestResolveGuardsAccountCreation(t *testing.T) {
	m := NewRegistrationMachine()

	// Without a plan, direct URL entry is corrected silently.
	assert.Equal(t, StepPlanRecommendation, m.Resolve(string(StepAccountCreation), emptyState()))

	// With a plan the step is reachable.
	assert.Equal(t, StepAccountCreation, m.Resolve(string(StepAccountCreation), stateWithPlan()))
}

func TestResolveGuardsTerminalStepChain(t *testing.T) {
	m := NewRegistrationMachine()

	// No account, no plan: falls back through accountCreation all the way
	// to the initial step.
	assert.Equal(t, StepPlanRecommendation, m.Resolve(string(StepLogin), emptyState()))

	// Plan but no account: corrects to accountCreation.
	assert.Equal(t, StepAccountCreation, m.Resolve(string(StepLogin), stateWithPlan()))

	// Everything present: terminal step reachable.
	assert.Equal(t, StepLogin, m.Resolve(string(StepLogin), stateWithAccount()))
}

func TestNextRevalidatesGuards(t *testing.T) {
	m := NewRegistrationMachine()

	// Forward from planRecommendation without a plan stays put.
	assert.Equal(t, StepPlanRecommendation, m.Next(StepPlanRecommendation, emptyState()))
	assert.Equal(t, StepAccountCreation, m.Next(StepPlanRecommendation, stateWithPlan()))
	assert.Equal(t, StepLogin, m.Next(StepAccountCreation, stateWithAccount()))

	// Forward from the last step stays put.
	assert.Equal(t, StepLogin, m.Next(StepLogin, stateWithAccount()))
}

func TestBackMovesExactlyOneStep(t *testing.T) {
	m := NewRegistrationMachine()

	assert.Equal(t, StepAccountCreation, m.Back(StepLogin, stateWithAccount()))
	assert.Equal(t, StepPlanRecommendation, m.Back(StepAccountCreation, stateWithPlan()))

	// From the first step there is nowhere earlier to go.
	assert.Equal(t, StepPlanRecommendation, m.Back(StepPlanRecommendation, emptyState()))
}

func TestIsTerminal(t *testing.T) {
	m := NewRegistrationMachine()
	assert.True(t, m.IsTerminal(StepLogin))
	assert.False(t, m.IsTerminal(StepAccountCreation))
	assert.False(t, m.IsTerminal(StepPlanRecommendation))
}

type fixedPosition string

func (p fixedPosition) CurrentPosition() string { return string(p) }

func TestSyncAppliesSameGuardsAsResolve(t *testing.T) {
	m := NewRegistrationMachine()

	// A history-pop landing on the terminal step without account data is
	// corrected exactly like a button click would be.
	assert.Equal(t, StepAccountCreation, m.Sync(fixedPosition(StepLogin), stateWithPlan()))
	assert.Equal(t, StepLogin, m.Sync(fixedPosition(StepLogin), stateWithAccount()))
}

func TestGuardFallbackCycleTerminates(t *testing.T) {
	def := Definition[struct{}]{
		Steps:   []Step{"a", "b"},
		Initial: "a",
		Guards: map[Step]Guard[struct{}]{
			"a": func(struct{}) (bool, Step) { return false, "b" },
			"b": func(struct{}) (bool, Step) { return false, "a" },
		},
	}
	m := NewMachine(def)
	assert.Equal(t, Step("a"), m.Resolve("b", struct{}{}))
}
