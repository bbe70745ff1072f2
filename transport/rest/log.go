package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIdHeader = "X-Request-Id"

func LogHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		requestId := uuid.NewString()
		ctx.Locals(requestIdLocalsKey, requestId)
		ctx.Set(requestIdHeader, requestId)

		requestLog(ctx).Infoln("Handling request.")
		return ctx.Next()
	}
}
