package rest

import (
	"fmt"

	"github.com/buzkaaclicker/userconf"
	"github.com/gofiber/fiber/v2"
)

type ProfileController struct {
	Service userconf.UserConfigService
}

func (c *ProfileController) InstallTo(app *fiber.App) {
	app.Get("/profile/:user_id", c.serveProfile)
	app.Put("/profile/:user_id", c.serveUpdateProfile)
	app.Get("/profile/:user_id/blinded-msg-requests", c.serveBlindedMsgRequests)
	app.Put("/profile/:user_id/blinded-msg-requests", c.serveUpdateBlindedMsgRequests)
}

type profileResponse struct {
	Name     *string `json:"name"`
	Priority int64   `json:"priority"`
	URL      *string `json:"url"`
	Key      []byte  `json:"key"`
}

func newProfileResponse(info userconf.UserInfo) profileResponse {
	resp := profileResponse{Priority: info.Priority}
	if info.Name != "" {
		name := info.Name
		resp.Name = &name
	}
	if info.ProfilePic != nil {
		url := info.ProfilePic.URL
		resp.URL = &url
		resp.Key = info.ProfilePic.Key
	}
	return resp
}

func (c *ProfileController) serveProfile(ctx *fiber.Ctx) error {
	userId, err := paramUserId(ctx)
	if err != nil {
		return err
	}

	info, err := c.Service.UserInfo(ctx.Context(), userId)
	if err != nil {
		return fmt.Errorf("get user info: %w", err)
	}
	return ctx.JSON(newProfileResponse(info))
}

func (c *ProfileController) serveUpdateProfile(ctx *fiber.Ctx) error {
	userId, err := paramUserId(ctx)
	if err != nil {
		return err
	}
	update, err := parseUserInfoUpdate(ctx.Body())
	if err != nil {
		return serviceError(err, "parse user info")
	}

	info, err := c.Service.SetUserInfo(ctx.Context(), userId, update)
	if err != nil {
		return serviceError(err, "set user info")
	}
	requestLog(ctx).
		WithField("user_id", userId).
		WithField("priority", info.Priority).
		Infoln("Updated profile.")
	return ctx.JSON(newProfileResponse(info))
}

type blindedMsgRequestsResponse struct {
	Enabled bool `json:"enabled"`
}

func (c *ProfileController) serveBlindedMsgRequests(ctx *fiber.Ctx) error {
	userId, err := paramUserId(ctx)
	if err != nil {
		return err
	}

	enabled, err := c.Service.BlindedMsgRequests(ctx.Context(), userId)
	if err != nil {
		return fmt.Errorf("get blinded msg requests: %w", err)
	}
	return ctx.JSON(blindedMsgRequestsResponse{Enabled: enabled})
}

func (c *ProfileController) serveUpdateBlindedMsgRequests(ctx *fiber.Ctx) error {
	userId, err := paramUserId(ctx)
	if err != nil {
		return err
	}
	enabled, err := parseEnabled(ctx.Body())
	if err != nil {
		return serviceError(err, "parse blinded msg requests")
	}

	if err := c.Service.SetBlindedMsgRequests(ctx.Context(), userId, enabled); err != nil {
		return serviceError(err, "set blinded msg requests")
	}
	return ctx.JSON(blindedMsgRequestsResponse{Enabled: enabled})
}
