package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/usercontext"
)

// Client is the capability the flow controller and orchestrator receive
// instead of reading auth state from an ambient context. The session
// provider behind it is an external collaborator.
type Client interface {
	IsAuthenticated(c *fiber.Ctx) bool
	CurrentUser(c *fiber.Ctx) usercontext.UserContext
}

type sessionClient struct{}

// NewSessionClient returns the session-backed auth capability.
func NewSessionClient() Client {
	return sessionClient{}
}

func (sessionClient) IsAuthenticated(c *fiber.Ctx) bool {
	return usercontext.IsLoggedIn(c)
}

func (sessionClient) CurrentUser(c *fiber.Ctx) usercontext.UserContext {
	return usercontext.GetUserContext(c)
}
