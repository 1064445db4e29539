package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sujit-baniya/flash"

	"github.com/DanceLinkHQ/DanceLink/app/models"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/auth"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/cache"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/constants"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flow"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flowstore"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/metrics/counter"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/platformapi"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/recommend"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/registration"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/session"
)

const (
	planCacheKey = "dancelink:plans"
	planCacheTTL = 5 * time.Minute
)

var (
	regMachine = flow.NewRegistrationMachine()
	authClient = auth.NewSessionClient()

	regStore    flowstore.Store
	regService  *registration.Service
	platformAPI platformapi.API
)

// InitializeRegistration wires the registration wizard dependencies once
// during router setup.
func InitializeRegistration(api platformapi.API, store flowstore.Store, accounts registration.Accounts) {
	platformAPI = api
	regStore = store
	regService = registration.NewService(api, store, accounts, registration.NewCacheLocker())
}

// HandleRegisterFlow serves GET /register. The step query parameter is the
// requested position; the machine resolves it against the stored state and a
// disallowed step silently redirects to the corrected one.
func HandleRegisterFlow(c *fiber.Ctx) error {
	key := regFlowKey(c)
	state := regStore.Load(key)
	if state.ActiveFlowID == "" {
		state.ActiveFlowID = uuid.NewString()
		regStore.Save(key, state)
		_ = counter.AddRegistrationEvent(counter.EventFlowStarted)
	}

	requested := c.Query(flow.StepQueryParam)
	step := regMachine.Resolve(requested, &state)
	if requested != "" && requested != string(step) {
		return c.Redirect(constants.RegisterRoute + "?step=" + string(step), fiber.StatusSeeOther)
	}

	if regMachine.IsTerminal(step) && authClient.IsAuthenticated(c) {
		regStore.Clear(key)
		session.DeleteSessionValue(c, regFlowSessionKey)
		_ = counter.AddRegistrationEvent(counter.EventFlowCompleted)

		fm := fiber.Map{
			"type":    "success",
			"message": "Welcome to DanceLink! Your registration is complete.",
		}
		return flash.WithSuccess(c, fm).Redirect(constants.PublicRoute)
	}

	payload := fiber.Map{
		"step":              string(step),
		"steps":             regMachine.Steps(),
		"flow_id":           state.ActiveFlowID,
		"billing_cycle":     state.BillingCycle,
		"selected_features": state.SelectedFeatures,
		"flash":             flash.Get(c),
	}

	switch step {
	case flow.StepPlanRecommendation:
		plans, err := loadPlans(c)
		if err != nil {
			payload["plans_error"] = "Plans are temporarily unavailable. Please try again."
		} else {
			res := recommend.Recommend(state.SelectedFeatures, plans)
			state.ApplyRecommendation(res, plans)
			regStore.Save(key, state)

			payload["plans"] = plans
			payload["features"] = recommend.Catalog
			if res != nil {
				payload["recommendation"] = res
			}
		}
		payload["selected_plan"] = state.RecommendedPlan
	case flow.StepAccountCreation:
		payload["plan"] = state.RecommendedPlan
		payload["account"] = state.AccountData
	case flow.StepLogin:
		payload["login_url"] = constants.LoginRoute
	}

	return c.JSON(payload)
}

// HandleRegisterFeatures serves POST /register/features: the user toggled
// the feature checkboxes and the recommendation is recomputed.
func HandleRegisterFeatures(c *fiber.Ctx) error {
	key := regFlowKey(c)
	state := regStore.Load(key)

	selected := make([]string, 0)
	for _, id := range formValueList(c, "features") {
		if recommend.KnownFeature(id) {
			selected = append(selected, id)
		}
	}
	state.SetSelectedFeatures(selected)

	if plans, err := loadPlans(c); err == nil {
		state.ApplyRecommendation(recommend.Recommend(state.SelectedFeatures, plans), plans)
	}
	regStore.Save(key, state)

	return c.Redirect(constants.RegisterRoute + "?step=" + string(flow.StepPlanRecommendation), fiber.StatusSeeOther)
}

// HandleRegisterPlan serves POST /register/plan: a manual plan pick, which
// locks the plan against auto-recommendation until the feature set changes.
func HandleRegisterPlan(c *fiber.Ctx) error {
	key := regFlowKey(c)
	state := regStore.Load(key)

	plans, err := loadPlans(c)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Plans are temporarily unavailable. Please try again.",
		}
		return flash.WithError(c, fm).Redirect(constants.RegisterRoute + "?step=" + string(flow.StepPlanRecommendation))
	}

	slug := c.FormValue("plan")
	var picked *models.Plan
	for i := range plans {
		if plans[i].Slug == slug {
			picked = &plans[i]
			break
		}
	}
	if picked == nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Unknown plan. Please pick one of the listed plans.",
		}
		return flash.WithError(c, fm).Redirect(constants.RegisterRoute + "?step=" + string(flow.StepPlanRecommendation))
	}

	state.SelectPlan(*picked, recommend.Recommend(state.SelectedFeatures, plans))
	regStore.Save(key, state)

	return c.Redirect(constants.RegisterRoute + "?step=" + string(flow.StepAccountCreation), fiber.StatusSeeOther)
}

// HandleRegisterBillingCycle serves POST /register/billing-cycle.
func HandleRegisterBillingCycle(c *fiber.Ctx) error {
	key := regFlowKey(c)
	state := regStore.Load(key)

	state.BillingCycle = recommend.NormalizeCycle(c.FormValue("cycle"))
	regStore.Save(key, state)

	back := c.FormValue("return_step")
	step := regMachine.Resolve(back, &state)
	return c.Redirect(constants.RegisterRoute + "?step=" + string(step), fiber.StatusSeeOther)
}

// HandleRegisterAccount serves POST /register/account and runs the
// two-phase submission: create the account, then start checkout unless the
// plan is free.
func HandleRegisterAccount(c *fiber.Ctx) error {
	key := regFlowKey(c)

	form := registration.AccountForm{
		Username:  c.FormValue("username"),
		Password:  c.FormValue("password"),
		Email:     c.FormValue("email"),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
	}

	outcome, err := regService.Submit(c.Context(), key, c.FormValue("flow_id"), form)
	if err != nil {
		return redirectSubmitError(c, err)
	}

	_ = counter.AddRegistrationEvent(counter.EventAccountCreated)

	if outcome.CheckoutRequired {
		_ = counter.AddRegistrationEvent(counter.EventCheckoutStarted)
		return c.Redirect(outcome.RedirectURL, fiber.StatusSeeOther)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Your account is ready. Log in to finish up.",
	}
	return flash.WithSuccess(c, fm).Redirect(constants.RegisterRoute + "?step=" + string(flow.StepLogin))
}

func redirectSubmitError(c *fiber.Ctx, err error) error {
	accountStep := constants.RegisterRoute + "?step=" + string(flow.StepAccountCreation)

	var vErr *registration.ValidationError
	var regErr *registration.RegistrationError
	var coErr *registration.CheckoutSessionError

	switch {
	case errors.Is(err, registration.ErrSubmitInFlight):
		// A submission is already running for this flow; just re-render.
		return c.Redirect(accountStep, fiber.StatusSeeOther)
	case errors.Is(err, registration.ErrStaleFlow):
		return c.Redirect(constants.RegisterRoute, fiber.StatusSeeOther)
	case errors.Is(err, registration.ErrPlanRequired):
		fm := fiber.Map{
			"type":    "error",
			"message": "Please choose a plan before creating your account.",
		}
		return flash.WithError(c, fm).Redirect(constants.RegisterRoute + "?step=" + string(flow.StepPlanRecommendation))
	case errors.As(err, &vErr):
		fm := fiber.Map{
			"type":    "error",
			"message": vErr.Error(),
		}
		for field, msg := range vErr.Fields {
			fm["field_"+field] = msg
		}
		return flash.WithError(c, fm).Redirect(accountStep)
	case errors.As(err, &regErr):
		fm := fiber.Map{
			"type":    "error",
			"message": "We could not create your account. Please check your details and try again.",
		}
		return flash.WithError(c, fm).Redirect(accountStep)
	case errors.As(err, &coErr):
		// The account exists at this point even though checkout failed, so
		// the user moves on to the login step. Re-submitting the account
		// form would fail against the already-registered email.
		_ = counter.AddRegistrationEvent(counter.EventAccountCreated)
		fm := fiber.Map{
			"type":    "error",
			"message": "Your account was created, but we could not start the payment. Log in now and retry the payment from your account.",
		}
		return flash.WithError(c, fm).Redirect(constants.RegisterRoute + "?step=" + string(flow.StepLogin))
	default:
		fm := fiber.Map{
			"type":    "error",
			"message": "Something went wrong. Please try again.",
		}
		return flash.WithError(c, fm).Redirect(accountStep)
	}
}

// loadPlans returns the plan catalog from the backend, cached briefly so the
// wizard does not hit the backend on every step render.
func loadPlans(c *fiber.Ctx) ([]models.Plan, error) {
	if raw, err := cache.Get(planCacheKey); err == nil && raw != "" {
		var plans []models.Plan
		if json.Unmarshal([]byte(raw), &plans) == nil {
			return plans, nil
		}
	}

	plans, err := platformAPI.ListPlans(c.Context())
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(plans); err == nil {
		_ = cache.Set(planCacheKey, string(raw), planCacheTTL)
	}
	return plans, nil
}
