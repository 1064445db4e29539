package registration

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel conditions handled internally by controllers: neither is ever
// shown to the user as an error.
var (
	// ErrSubmitInFlight means a prior submission for this flow has not
	// settled yet; the action is disabled until it does.
	ErrSubmitInFlight = errors.New("a submission for this flow is already in flight")

	// ErrPlanRequired means the account step was reached without a plan; the
	// caller redirects to the plan step instead of surfacing an error.
	ErrPlanRequired = errors.New("a recommended plan is required before account creation")

	// ErrStaleFlow means the flow instance that started the submission has
	// been superseded; its results must not mutate stored state.
	ErrStaleFlow = errors.New("flow instance is no longer active")
)

// ValidationError carries per-field messages for a rejected account form.
// It never reaches the network: validation failure halts before any call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// RegistrationError means the account was NOT created; the user may retry
// with corrected input.
type RegistrationError struct {
	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration failed: %v", e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// CheckoutSessionError means the account WAS created but the checkout
// session could not be started. It must never be presented as a registration
// failure: the user can retry payment later without re-registering.
type CheckoutSessionError struct {
	Err error
}

func (e *CheckoutSessionError) Error() string {
	return fmt.Sprintf("checkout session failed: %v", e.Err)
}

func (e *CheckoutSessionError) Unwrap() error { return e.Err }
