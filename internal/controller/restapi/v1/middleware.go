package v1

import (
	"github.com/gofiber/fiber/v2"
)

const userHeader = "X-User-Id"

const anonymousActor = "anonymous"

// recordActivity marks the calling user as recently active. Identity comes
// from the gateway-injected header; anonymous traffic is not tracked.
func (r *V1) recordActivity(ctx *fiber.Ctx) error {
	if userID := ctx.Get(userHeader); userID != "" {
		r.users.RecordActivity(userID)
	}

	return ctx.Next()
}

func actor(ctx *fiber.Ctx) string {
	if userID := ctx.Get(userHeader); userID != "" {
		return userID
	}

	return anonymousActor
}
