package router

import (
	"github.com/DanceLinkHQ/DanceLink/app/controllers"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/database"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flowstore"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/middleware"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/platformapi"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/registration"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Wire the registration wizard against the backend client and the
	// configured flow store
	controllers.InitializeRegistration(
		platformapi.NewClientFromEnv(),
		flowstore.NewFromEnv(database.GetDB()),
		registration.NewGormAccounts(database.GetDB()),
	)

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context; this middleware
	// just passes through so routes read as public-but-personalized.
	return c.Next()
}

// Auth middlewares live in internal/pkg/middleware/auth.go
