package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/env"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/usercontext"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/utils"
)

// HandleStart renders the landing surface. It is the target of the terminal
// registration redirect and of booking completion and cancel.
func HandleStart(c *fiber.Ctx) error {
	appENV := env.GetEnv("APP_ENV", "prod")

	payload := fiber.Map{
		"page":      "home",
		"env":       appENV,
		"logged_in": isLoggedIn(c),
		"username":  ExtractUsername(c),
		"flash":     flash.Get(c),
	}
	if user := usercontext.GetUserContext(c); user.IsLoggedIn {
		payload["avatar_url"] = utils.GravatarURL(user.Email, 0)
	}
	return c.JSON(payload)
}

// HandleAbout is a static informational page.
func HandleAbout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":      "about",
		"logged_in": isLoggedIn(c),
	})
}
