package router

import (
	"github.com/DanceLinkHQ/DanceLink/app/controllers"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Static pages
	app.Get("/about", loggedInMiddleware, controllers.HandleAbout)

	// Flash helpers (checkout return URLs, no CSRF: redirect targets only)
	app.Get("/flash/checkout-cancelled", loggedInMiddleware, controllers.HandleFlashCheckoutCancelled)
	app.Get("/flash/checkout-success", loggedInMiddleware, controllers.HandleFlashCheckoutSuccess)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)
}
