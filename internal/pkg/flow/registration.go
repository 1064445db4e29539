package flow

import (
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flowstore"
)

// Registration wizard steps. The order defines forward progress; backward
// navigation only ever moves to strictly earlier steps.
const (
	StepPlanRecommendation Step = "planRecommendation"
	StepAccountCreation    Step = "accountCreation"
	StepLogin              Step = "login"
)

// StepQueryParam is the URL query parameter mirroring the wizard position.
const StepQueryParam = "step"

// RegistrationDefinition wires the registration wizard: account creation is
// unreachable without a recommended plan, the terminal login step is
// unreachable without submitted account data. Unsatisfied guards fall back
// to the earliest satisfiable step instead of erroring.
func RegistrationDefinition() Definition[*flowstore.RegistrationFlowState] {
	return Definition[*flowstore.RegistrationFlowState]{
		Steps:   []Step{StepPlanRecommendation, StepAccountCreation, StepLogin},
		Initial: StepPlanRecommendation,
		Guards: map[Step]Guard[*flowstore.RegistrationFlowState]{
			StepAccountCreation: func(s *flowstore.RegistrationFlowState) (bool, Step) {
				return s.HasPlan(), StepPlanRecommendation
			},
			StepLogin: func(s *flowstore.RegistrationFlowState) (bool, Step) {
				return s.HasAccount(), StepAccountCreation
			},
		},
	}
}

// NewRegistrationMachine is the registration wizard state machine.
func NewRegistrationMachine() *Machine[*flowstore.RegistrationFlowState] {
	return NewMachine(RegistrationDefinition())
}
