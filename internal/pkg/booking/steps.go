package booking

import (
	"strconv"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flow"
)

// Booking wizard steps, in order. The step index 0..5 is what the URL
// carries.
const (
	StepServices flow.Step = "0"
	StepLocation flow.Step = "1"
	StepAccount  flow.Step = "2"
	StepDate     flow.Step = "3"
	StepPricing  flow.Step = "4"
	StepReview   flow.Step = "5"
)

var orderedSteps = []flow.Step{
	StepServices, StepLocation, StepAccount, StepDate, StepPricing, StepReview,
}

// StepValid reports whether the gate for one step is satisfied on the draft.
func (d *Draft) StepValid(idx int) bool {
	switch orderedSteps[idx] {
	case StepServices:
		return len(d.ServiceCategories) > 0
	case StepLocation:
		return d.Zipcode != ""
	case StepAccount:
		// The account step redirects to login externally; once the session
		// exists the gate is satisfied.
		return d.Authenticated
	case StepDate:
		return !d.Date.IsZero()
	case StepPricing:
		return d.PriceMax > 0 && d.PriceMin <= d.PriceMax
	default:
		return true
	}
}

// CompletedThrough reports whether every step up to and including idx is
// satisfied.
func (d *Draft) CompletedThrough(idx int) bool {
	for i := 0; i <= idx; i++ {
		if !d.StepValid(i) {
			return false
		}
	}
	return true
}

// Definition wires the booking wizard on the shared step machine: entering
// step N requires every earlier gate to hold, and a violation falls back one
// step at a time until the earliest unsatisfied one.
func Definition() flow.Definition[*Draft] {
	guards := make(map[flow.Step]flow.Guard[*Draft], len(orderedSteps)-1)
	for i := 1; i < len(orderedSteps); i++ {
		idx := i
		guards[orderedSteps[idx]] = func(d *Draft) (bool, flow.Step) {
			return d.CompletedThrough(idx - 1), orderedSteps[idx-1]
		}
	}
	return flow.Definition[*Draft]{
		Steps:   orderedSteps,
		Initial: StepServices,
		Guards:  guards,
	}
}

// NewMachine is the booking wizard state machine.
func NewMachine() *flow.Machine[*Draft] {
	return flow.NewMachine(Definition())
}

// StepIndex parses a raw URL step value; unknown values map to 0.
func StepIndex(raw string) int {
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= len(orderedSteps) {
		return 0
	}
	return idx
}
