package rest

import (
	"fmt"
	"strconv"

	"github.com/buzkaaclicker/userconf"
	"github.com/gofiber/fiber/v2"
)

const maxActivityLimit = 100

type ActivityController struct {
	Store userconf.ActivityStore
}

func (c *ActivityController) InstallTo(app *fiber.App) {
	app.Get("/profile/:user_id/activities", c.serveActivities)
}

// ?before=<id> pages backwards from the given log id, ?limit=<n> caps the page.
func (c *ActivityController) serveActivities(ctx *fiber.Ctx) error {
	userId, err := paramUserId(ctx)
	if err != nil {
		return err
	}
	beforeId, err := strconv.ParseInt(ctx.Query("before", "-1"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid before id")
	}
	limit, err := strconv.Atoi(ctx.Query("limit", strconv.Itoa(maxActivityLimit)))
	if err != nil || limit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	logs, err := c.Store.ByUserId(ctx.Context(), userId, beforeId, int32(limit))
	if err != nil {
		return fmt.Errorf("get logs by user id: %w", err)
	}

	type Log struct {
		Id        int64                  `json:"id"`
		CreatedAt int64                  `json:"createdAt"`
		Name      string                 `json:"name"`
		Data      map[string]interface{} `json:"data,omitempty"`
	}
	mapped := make([]Log, len(logs))
	for i, log := range logs {
		mapped[i] = Log{Id: log.Id, CreatedAt: log.CreatedAt.Unix(), Name: log.Name, Data: log.Data}
	}
	return ctx.JSON(mapped)
}
