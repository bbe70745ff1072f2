package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/buzkaaclicker/userconf"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const requestIdLocalsKey = "request_id"

type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}

func requestLog(ctx *fiber.Ctx) *logrus.Entry {
	entry := logrus.
		WithField("remote_addr", ctx.Context().RemoteAddr()).
		WithField("path", ctx.Path()).
		WithField("z_referer", string(ctx.Request().Header.Peek("Referer"))).
		WithField("z_user_agent", string(ctx.Request().Header.Peek("User-Agent"))).
		WithField("z_x_forwared_for", string(ctx.Request().Header.Peek("X-Forwarded-For")))
	if requestId, ok := ctx.Locals(requestIdLocalsKey).(string); ok {
		entry = entry.WithField("request_id", requestId)
	}
	return entry
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return ctx.
			Status(fe.Code).
			JSON(&ErrorResponse{ErrorMessage: fe.Message})
	} else {
		requestLog(ctx).WithError(err).Errorln("Internal server error.")
		// keep internal server errors private. reply with generic error message.
		return ctx.
			Status(fiber.ErrInternalServerError.Code).
			JSON(&ErrorResponse{ErrorMessage: fiber.ErrInternalServerError.Message})
	}
}

func NotFoundHandler(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound)
}

func jsonErrorMessageResponse(message string) string {
	bytes, err := json.Marshal(ErrorResponse{ErrorMessage: message})
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func paramUserId(ctx *fiber.Ctx) (userconf.UserId, error) {
	userIdStr := ctx.Params("user_id")
	if userIdStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "no user id")
	}
	userId, err := strconv.ParseInt(userIdStr, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}
	return userconf.UserId(userId), nil
}

// serviceError turns caller mistakes into 400 replies. Everything else stays
// an internal error.
func serviceError(err error, action string) error {
	var shapeErr *ShapeError
	var validationErr *userconf.ValidationError
	switch {
	case errors.As(err, &shapeErr):
		return fiber.NewError(fiber.StatusBadRequest, shapeErr.Error())
	case errors.As(err, &validationErr):
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Error())
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
