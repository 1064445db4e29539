package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/DanceLinkHQ/DanceLink/internal/pkg/constants"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/flow"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/session"
	"github.com/DanceLinkHQ/DanceLink/internal/pkg/usercontext"
)

func isLoggedIn(c *fiber.Ctx) bool {
	var fromProtected bool
	if protectedValue := c.Locals(usercontext.KeyFromProtected); protectedValue != nil {
		fromProtected = protectedValue.(bool)
	}

	return fromProtected
}

// ExtractUsername gets the username from Locals (set by middleware)
func ExtractUsername(c *fiber.Ctx) string {
	if userNameValue := c.Locals(usercontext.KeyUsername); userNameValue != nil {
		if userName, ok := userNameValue.(string); ok {
			return userName
		}
	}

	return ""
}

// regFlowSessionKey holds the per-session registration flow key. One session
// owns exactly one registration flow; a reload rejoins the same flow.
const regFlowSessionKey = "regflow_key"

func regFlowKey(c *fiber.Ctx) string {
	key := session.GetSessionValue(c, regFlowSessionKey)
	if key != "" {
		return key
	}

	key = uuid.NewString()
	if err := session.SetSessionValue(c, regFlowSessionKey, key); err != nil {
		// Without a session the flow still works for this request, it just
		// cannot be rejoined after a reload.
		return key
	}
	return key
}

// postLoginTarget decides where a fresh login lands. A session with a
// pending registration flow goes straight to the wizard's login step so
// the flow can finish; the step must be explicit in the URL or the wizard
// would restart at the plan recommendation.
func postLoginTarget(pendingFlow bool) string {
	if pendingFlow {
		return constants.RegisterRoute + "?step=" + string(flow.StepLogin)
	}
	return constants.PublicRoute
}

// formValueList collects all values posted under one form field name
// (checkbox groups, multi-selects).
func formValueList(c *fiber.Ctx, name string) []string {
	raw := c.Request().PostArgs().PeekMulti(name)
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		s := strings.TrimSpace(string(v))
		if s != "" {
			values = append(values, s)
		}
	}
	return values
}
