package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanceLinkHQ/DanceLink/app/models"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flowstore"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/platformapi"
)

type memStore struct {
	states map[string]flowstore.RegistrationFlowState
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]flowstore.RegistrationFlowState)}
}

func (m *memStore) Load(key string) flowstore.RegistrationFlowState {
	if s, ok := m.states[key]; ok {
		return s
	}
	return flowstore.EmptyState()
}

func (m *memStore) Save(key string, state flowstore.RegistrationFlowState) {
	m.states[key] = state
}

func (m *memStore) Clear(key string) {
	delete(m.states, key)
}

type memLocker struct {
	held map[string]bool
	deny bool
}

func newMemLocker() *memLocker { return &memLocker{held: make(map[string]bool)} }

func (l *memLocker) Acquire(key string, _ time.Duration) bool {
	if l.deny || l.held[key] {
		return false
	}
	l.held[key] = true
	return true
}

func (l *memLocker) Release(key string) { delete(l.held, key) }

type memAccounts struct {
	upserts []AccountForm
	err     error
}

func (a *memAccounts) Upsert(username, email, firstName, lastName, password string) error {
	a.upserts = append(a.upserts, AccountForm{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
	})
	return a.err
}

type fakeAPI struct {
	registerCalls int
	checkoutCalls int
	registerErr   error
	checkoutErr   error
	checkoutURL   string

	lastRegister platformapi.RegisterPayload
	lastCheckout platformapi.CheckoutPayload
}

func (f *fakeAPI) ListPlans(context.Context) ([]models.Plan, error) { return nil, nil }

func (f *fakeAPI) RegisterAccount(_ context.Context, in platformapi.RegisterPayload) (*platformapi.RegisterResult, error) {
	f.registerCalls++
	f.lastRegister = in
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &platformapi.RegisterResult{
		AccessToken: "tok-123",
		User:        platformapi.RegisteredUser{ID: 1, Username: in.Username, Email: in.Email},
	}, nil
}

func (f *fakeAPI) CreateCheckoutSession(_ context.Context, token string, in platformapi.CheckoutPayload) (*platformapi.CheckoutSession, error) {
	f.checkoutCalls++
	f.lastCheckout = in
	if token == "" {
		return nil, errors.New("missing token")
	}
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	url := f.checkoutURL
	if url == "" {
		url = "https://pay.example.com/cs_1"
	}
	return &platformapi.CheckoutSession{URL: url}, nil
}

func (f *fakeAPI) CreateBooking(context.Context, platformapi.BookingPayload) (*platformapi.BookingResult, error) {
	return nil, errors.New("not used")
}

func seedState(store *memStore, key string, plan models.Plan) {
	state := flowstore.EmptyState()
	state.SetSelectedFeatures([]string{"enroll_courses"})
	state.RecommendedPlan = &flowstore.PlanSelection{Plan: plan, IsRecommended: true, MatchedFeatures: 1}
	state.ActiveFlowID = "inst-1"
	store.Save(key, state)
}

func TestSubmitFreePlanFinalizesLocally(t *testing.T) {
	api := &fakeAPI{}
	store := newMemStore()
	seedState(store, "flow-1", models.Plan{Slug: "free", Tier: "free"})

	accounts := &memAccounts{}
	svc := NewService(api, store, accounts, newMemLocker())
	out, err := svc.Submit(context.Background(), "flow-1", "inst-1", validForm())
	require.NoError(t, err)

	// No checkout call for a zero-price plan; straight to the landing page.
	assert.Equal(t, "/", out.RedirectURL)
	assert.False(t, out.CheckoutRequired)
	assert.Equal(t, 1, api.registerCalls)
	assert.Zero(t, api.checkoutCalls)

	// The credentials the user just typed are mirrored locally so the
	// session login at the end of the flow can verify them.
	require.Len(t, accounts.upserts, 1)
	assert.Equal(t, validForm(), accounts.upserts[0])

	saved := store.Load("flow-1")
	require.NotNil(t, saved.AccountData)
	assert.Equal(t, "tanzmaus", saved.AccountData.Username)
	assert.False(t, saved.PaymentCompleted)
}

func TestSubmitPaidPlanOpensCheckout(t *testing.T) {
	api := &fakeAPI{}
	store := newMemStore()
	seedState(store, "flow-1", models.Plan{Slug: "gold", Tier: "gold", MonthlyPrice: 19})

	accounts := &memAccounts{}
	svc := NewService(api, store, accounts, newMemLocker())
	out, err := svc.Submit(context.Background(), "flow-1", "inst-1", validForm())
	require.NoError(t, err)

	assert.Len(t, accounts.upserts, 1)
	assert.True(t, out.CheckoutRequired)
	assert.Equal(t, "https://pay.example.com/cs_1", out.RedirectURL)
	assert.Equal(t, 1, api.registerCalls)
	assert.Equal(t, 1, api.checkoutCalls)
	assert.Equal(t, "gold", api.lastCheckout.PlanSlug)
	assert.Equal(t, "monthly", api.lastCheckout.Frequency)

	// Payment stays open until confirmed out of band.
	saved := store.Load("flow-1")
	assert.False(t, saved.PaymentCompleted)
	require.NotNil(t, saved.AccountData)
}

func TestSubmitCheckoutFailureKeepsAccountData(t *testing.T) {
	api := &fakeAPI{checkoutErr: errors.New("payment provider down")}
	store := newMemStore()
	seedState(store, "flow-1", models.Plan{Slug: "gold", Tier: "gold", MonthlyPrice: 19})

	accounts := &memAccounts{}
	svc := NewService(api, store, accounts, newMemLocker())
	_, err := svc.Submit(context.Background(), "flow-1", "inst-1", validForm())

	// Distinct error type: the account exists, the user must not be told to
	// re-register.
	var cerr *CheckoutSessionError
	require.ErrorAs(t, err, &cerr)
	var rerr *RegistrationError
	assert.False(t, errors.As(err, &rerr))

	saved := store.Load("flow-1")
	require.NotNil(t, saved.AccountData)
	assert.False(t, saved.PaymentCompleted)

	// The backend account was created before checkout failed, so the local
	// mirror exists and the user can log in once payment is sorted out.
	assert.Len(t, accounts.upserts, 1)
}

func TestSubmitRegistrationFailure(t *testing.T) {
	api := &fakeAPI{registerErr: errors.New("email already taken")}
	store := newMemStore()
	seedState(store, "flow-1", models.Plan{Slug: "gold", Tier: "gold", MonthlyPrice: 19})

	accounts := &memAccounts{}
	svc := NewService(api, store, accounts, newMemLocker())
	_, err := svc.Submit(context.Background(), "flow-1", "inst-1", validForm())

	var rerr *RegistrationError
	require.ErrorAs(t, err, &rerr)

	// Account was not created: no account data, no local mirror, no checkout
	// attempt.
	saved := store.Load("flow-1")
	assert.Nil(t, saved.AccountData)
	assert.Empty(t, accounts.upserts)
	assert.Zero(t, api.checkoutCalls)
}

func TestSubmitValidationFailureMakesNoNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	store := newMemStore()
	seedState(store, "flow-1", models.Plan{Slug: "free", Tier: "free"})

	form := validForm()
	form.Password = "short"

	accounts := &memAccounts{}
	svc := NewService(api, store, accounts, newMemLocker())
	_, err := svc.Submit(context.Background(), "flow-1", "inst-1", form)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Password")
	assert.Zero(t, api.registerCalls)
	assert.Empty(t, accounts.upserts)
}

func TestSubmitWithoutPlanIsGuarded(t *testing.T) {
	api := &fakeAPI{}
	store := newMemStore()

	svc := NewService(api, store, &memAccounts{}, newMemLocker())
	_, err := svc.Submit(context.Background(), "flow-1", "inst-1", validForm())
	assert.ErrorIs(t, err, ErrPlanRequired)
	assert.Zero(t, api.registerCalls)
}

func TestSubmitDoubleSubmitIsRejected(t *testing.T) {
	api := &fakeAPI{}
	store := newMemStore()
	seedState(store, "flow-1", models.Plan{Slug: "free", Tier: "free"})

	locker := newMemLocker()
	locker.deny = true

	svc := NewService(api, store, &memAccounts{}, locker)
	_, err := svc.Submit(context.Background(), "flow-1", "inst-1", validForm())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Zero(t, api.registerCalls)
}

func TestSubmitMirrorFailureDoesNotAbort(t *testing.T) {
	api := &fakeAPI{}
	store := newMemStore()
	seedState(store, "flow-1", models.Plan{Slug: "free", Tier: "free"})

	// The backend account is the account of record; a failed local mirror
	// write must not fail the submission.
	accounts := &memAccounts{err: errors.New("users table unavailable")}
	svc := NewService(api, store, accounts, newMemLocker())
	out, err := svc.Submit(context.Background(), "flow-1", "inst-1", validForm())
	require.NoError(t, err)
	assert.Equal(t, "/", out.RedirectURL)
}

func TestSubmitStaleInstanceIsNoOp(t *testing.T) {
	api := &fakeAPI{}
	store := newMemStore()
	seedState(store, "flow-1", models.Plan{Slug: "free", Tier: "free"})

	svc := NewService(api, store, &memAccounts{}, newMemLocker())
	_, err := svc.Submit(context.Background(), "flow-1", "inst-2", validForm())
	assert.ErrorIs(t, err, ErrStaleFlow)

	saved := store.Load("flow-1")
	assert.Nil(t, saved.AccountData)
	assert.Zero(t, api.registerCalls)
}
