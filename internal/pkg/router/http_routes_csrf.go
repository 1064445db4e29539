package router

import (
	"strings"
	"time"

	"github.com/DanceLinkHQ/DanceLink/app/controllers"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/env"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleStart)
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)

	// Registration wizard
	group.Get("/register", loggedInMiddleware, controllers.HandleRegisterFlow)
	group.Post("/register/features", loggedInMiddleware, controllers.HandleRegisterFeatures)
	group.Post("/register/plan", loggedInMiddleware, controllers.HandleRegisterPlan)
	group.Post("/register/billing-cycle", loggedInMiddleware, controllers.HandleRegisterBillingCycle)
	group.Post("/register/account", loggedInMiddleware, controllers.HandleRegisterAccount)

	// Booking wizard
	group.Get("/booking/new", loggedInMiddleware, controllers.HandleBookingWizard)
	group.Post("/booking/new", loggedInMiddleware, controllers.HandleBookingStep)
	group.Post("/booking/new/back", loggedInMiddleware, controllers.HandleBookingBack)
	group.Post("/booking/complete", middleware.RequireAuth, controllers.HandleBookingComplete)
	group.Post("/booking/cancel", loggedInMiddleware, controllers.HandleBookingCancel)
}
