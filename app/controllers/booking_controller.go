package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/booking"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/constants"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flow"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/metrics/counter"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/session"
)

// bookingDraftSessionKey holds the encoded draft in the web session. The
// draft lives and dies with the session; there is no durable store behind it.
const bookingDraftSessionKey = "booking_draft"

var bookingMachine = booking.NewMachine()

func loadBookingDraft(c *fiber.Ctx) *booking.Draft {
	draft := booking.DecodeDraft(session.GetSessionValue(c, bookingDraftSessionKey))
	draft.Authenticated = authClient.IsAuthenticated(c)
	return draft
}

func saveBookingDraft(c *fiber.Ctx, draft *booking.Draft) {
	_ = session.SetSessionValue(c, bookingDraftSessionKey, draft.Encode())
}

// HandleBookingWizard serves GET /booking/new. The step query parameter is
// the requested position (0..5); jumping past an unsatisfied gate redirects
// back to the earliest incomplete step.
func HandleBookingWizard(c *fiber.Ctx) error {
	draft := loadBookingDraft(c)

	requested := c.Query(flow.StepQueryParam)
	step := bookingMachine.Resolve(requested, draft)
	if requested != "" && requested != string(step) {
		return c.Redirect(constants.BookingRoute + "?step=" + string(step), fiber.StatusSeeOther)
	}

	payload := fiber.Map{
		"step":  string(step),
		"steps": bookingMachine.Steps(),
		"draft": draft,
		"flash": flash.Get(c),
	}
	if step == booking.StepAccount && !draft.Authenticated {
		payload["login_url"] = constants.LoginRoute
	}
	return c.JSON(payload)
}

// HandleBookingStep serves POST /booking/new: records the submitted fields
// for the current step and advances when its gate is satisfied.
func HandleBookingStep(c *fiber.Ctx) error {
	draft := loadBookingDraft(c)
	cur := bookingMachine.Resolve(c.FormValue("step"), draft)

	switch cur {
	case booking.StepServices:
		draft.SetCategories(formValueList(c, "categories"))
		draft.SetStyles(formValueList(c, "styles"))
	case booking.StepLocation:
		draft.Zipcode = strings.TrimSpace(c.FormValue("zipcode"))
		if r, err := strconv.Atoi(c.FormValue("travel_radius_km")); err == nil && r > 0 {
			draft.TravelRadiusKM = r
		}
	case booking.StepDate:
		if t, err := time.Parse("2006-01-02", c.FormValue("date")); err == nil {
			draft.Date = t
		}
	case booking.StepPricing:
		draft.PriceMin = parsePrice(c.FormValue("price_min"))
		draft.PriceMax = parsePrice(c.FormValue("price_max"))
		if y, err := strconv.Atoi(c.FormValue("years_experience")); err == nil && y >= 0 {
			draft.YearsExperience = y
		}
		draft.Bio = strings.TrimSpace(c.FormValue("bio"))
		if services := formValueList(c, "services"); len(services) > 0 {
			draft.Services = services
		}
	}
	saveBookingDraft(c, draft)

	if !draft.StepValid(bookingMachine.Index(cur)) {
		fm := fiber.Map{
			"type":    "error",
			"message": "Please complete this step before continuing.",
		}
		return flash.WithError(c, fm).Redirect(constants.BookingRoute + "?step=" + string(cur))
	}

	next := bookingMachine.Next(cur, draft)
	if cur == booking.StepLocation && !draft.Authenticated {
		// The account step needs a session; send the user to login and let
		// them resume the wizard afterwards.
		fm := fiber.Map{
			"type":    "info",
			"message": "Log in to continue your booking.",
		}
		return flash.WithInfo(c, fm).Redirect(constants.LoginRoute)
	}

	return c.Redirect(constants.BookingRoute + "?step=" + string(next), fiber.StatusSeeOther)
}

// HandleBookingBack serves POST /booking/new/back: one step backwards, never
// more, never forwards.
func HandleBookingBack(c *fiber.Ctx) error {
	draft := loadBookingDraft(c)
	cur := bookingMachine.Resolve(c.FormValue("step"), draft)
	back := bookingMachine.Back(cur, draft)
	return c.Redirect(constants.BookingRoute + "?step=" + string(back), fiber.StatusSeeOther)
}

// HandleBookingComplete serves POST /booking/complete: submits the whole
// draft to the backend and clears it from the session.
func HandleBookingComplete(c *fiber.Ctx) error {
	draft := loadBookingDraft(c)

	if !draft.CompletedThrough(bookingMachine.Index(booking.StepPricing)) {
		step := bookingMachine.Resolve(string(booking.StepReview), draft)
		return c.Redirect(constants.BookingRoute + "?step=" + string(step), fiber.StatusSeeOther)
	}

	result, err := platformAPI.CreateBooking(c.Context(), draft.Payload())
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "We could not submit your booking. Please try again.",
		}
		return flash.WithError(c, fm).Redirect(constants.BookingRoute + "?step=" + string(booking.StepReview))
	}

	session.DeleteSessionValue(c, bookingDraftSessionKey)
	_ = counter.AddBookingEvent(counter.EventBookingSubmitted)

	fm := fiber.Map{
		"type":    "success",
		"message": "Booking request " + result.BookingID + " submitted. We will be in touch!",
	}
	return flash.WithSuccess(c, fm).Redirect(constants.PublicRoute)
}

// HandleBookingCancel serves POST /booking/cancel: discards the draft.
func HandleBookingCancel(c *fiber.Ctx) error {
	session.DeleteSessionValue(c, bookingDraftSessionKey)
	_ = counter.AddBookingEvent(counter.EventBookingCancelled)

	fm := fiber.Map{
		"type":    "info",
		"message": "Booking cancelled.",
	}
	return flash.WithInfo(c, fm).Redirect(constants.PublicRoute)
}

func parsePrice(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
