package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/constants"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flow"
)

// HandleFlashCheckoutCancelled is the return URL for an abandoned checkout.
// The account already exists at this point; the user can retry the payment
// from the account step.
func HandleFlashCheckoutCancelled(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type":    "info",
		"message": "Checkout cancelled. You can retry the payment at any time.",
	}
	flash.WithInfo(c, fm)
	return c.Redirect(constants.RegisterRoute + "?step=" + string(flow.StepAccountCreation), fiber.StatusSeeOther)
}

// HandleFlashCheckoutSuccess is the return URL after a completed payment.
// Query: ?next=/register?step=login
func HandleFlashCheckoutSuccess(c *fiber.Ctx) error {
	next := c.Query("next", constants.RegisterRoute + "?step=" + string(flow.StepLogin))
	fm := fiber.Map{
		"type":    "success",
		"message": "Payment received. Log in to finish your registration.",
	}
	flash.WithSuccess(c, fm)
	return c.Redirect(next, fiber.StatusSeeOther)
}
