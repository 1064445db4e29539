package registration

import (
	"context"
	"log"
	"time"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/cache"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flowstore"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/platformapi"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/recommend"
)

const (
	submitLockPrefix = "dancelink:regsubmit:"
	submitLockTTL    = 30 * time.Second
)

// Locker guards against re-entrant double submits for the same flow while a
// prior submission has not settled.
type Locker interface {
	Acquire(key string, ttl time.Duration) bool
	Release(key string)
}

type cacheLocker struct{}

func (cacheLocker) Acquire(key string, ttl time.Duration) bool {
	return cache.AcquireLock(key, ttl)
}

func (cacheLocker) Release(key string) {
	cache.ReleaseLock(key)
}

// NewCacheLocker returns the Redis-backed submit lock.
func NewCacheLocker() Locker {
	return cacheLocker{}
}

// Outcome tells the controller where to send the user after a successful
// submission: the landing surface for free plans, the external checkout page
// otherwise.
type Outcome struct {
	RedirectURL      string
	CheckoutRequired bool
}

// Service runs the two-phase account submission: create the account, then
// either finalize locally (free plan) or open a checkout session. Account
// creation always completes and yields a token strictly before any checkout
// request; the two calls are never issued concurrently.
type Service struct {
	api      platformapi.API
	store    flowstore.Store
	accounts Accounts
	locks    Locker
}

func NewService(api platformapi.API, store flowstore.Store, accounts Accounts, locks Locker) *Service {
	return &Service{api: api, store: store, accounts: accounts, locks: locks}
}

// Submit validates the form and drives the registration protocol for one
// flow. instanceID identifies the flow instance issuing the submission; a
// stale instance never mutates stored state.
//
// Error contract: *ValidationError before any network call,
// *RegistrationError when the account was not created, *CheckoutSessionError
// when the account exists but checkout could not be started, and the
// ErrSubmitInFlight / ErrPlanRequired / ErrStaleFlow sentinels for
// conditions the controller handles silently.
func (s *Service) Submit(ctx context.Context, flowKey, instanceID string, form AccountForm) (*Outcome, error) {
	state := s.store.Load(flowKey)
	if !state.HasPlan() {
		return nil, ErrPlanRequired
	}
	if isStale(state, instanceID) {
		return nil, ErrStaleFlow
	}

	if verr := form.Validate(); verr != nil {
		return nil, verr
	}

	lockKey := submitLockPrefix + flowKey
	if !s.locks.Acquire(lockKey, submitLockTTL) {
		return nil, ErrSubmitInFlight
	}
	defer s.locks.Release(lockKey)

	plan := state.RecommendedPlan.Plan
	cycle := recommend.NormalizeCycle(state.BillingCycle)

	reg, err := s.api.RegisterAccount(ctx, platformapi.RegisterPayload{
		FirstName:        form.FirstName,
		LastName:         form.LastName,
		Email:            form.Email,
		Username:         form.Username,
		Password:         form.Password,
		SubscriptionTier: string(recommend.NormalizeTier(plan.Tier)),
	})
	if err != nil {
		return nil, &RegistrationError{Err: err}
	}

	// Mirror the account into the local users table so the terminal-step
	// session login can verify the credentials. The backend account exists
	// at this point even if the flow turns out stale below.
	if err := s.accounts.Upsert(form.Username, form.Email, form.FirstName, form.LastName, form.Password); err != nil {
		log.Printf("registration: failed to mirror local account for %s: %v", form.Email, err)
	}

	// Re-load before writing: if the flow was torn down or superseded while
	// the call was outstanding, its resolution must not touch stored state.
	current := s.store.Load(flowKey)
	if isStale(current, instanceID) {
		return nil, ErrStaleFlow
	}
	current.AccountData = &flowstore.AccountData{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}
	s.store.Save(flowKey, current)

	if plan.IsFree(cycle) {
		// Nothing to pay: finalize locally and head to the landing surface.
		return &Outcome{RedirectURL: "/"}, nil
	}

	session, err := s.api.CreateCheckoutSession(ctx, reg.AccessToken, platformapi.CheckoutPayload{
		PlanSlug:  plan.Slug,
		Tier:      string(recommend.NormalizeTier(plan.Tier)),
		Frequency: cycle,
		Email:     form.Email,
	})
	if err != nil {
		// The account exists; the user retries payment later, not
		// registration. Account data stays in the flow state for recovery.
		return nil, &CheckoutSessionError{Err: err}
	}

	return &Outcome{RedirectURL: session.URL, CheckoutRequired: true}, nil
}

func isStale(state flowstore.RegistrationFlowState, instanceID string) bool {
	return state.ActiveFlowID != "" && instanceID != "" && state.ActiveFlowID != instanceID
}
