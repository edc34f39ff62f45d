// FILE: internal/controller/assistant_controller.go
package controller

import (
	"errors"

	"assembly-guide-be/internal/dto"
	"assembly-guide-be/internal/service"
	"assembly-guide-be/pkg/llm"
	"assembly-guide-be/pkg/llm/retry"
	"assembly-guide-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Ask(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
}

func NewAssistantController(service service.IAssistantService) IAssistantController {
	return &assistantController{service: service}
}

func (c *assistantController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/assistant")
	for _, m := range middleware {
		h.Use(m)
	}
	h.Post("/ask", c.Ask)
}

func (c *assistantController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	session := ctx.Locals("session").(*store.Session)
	res, err := c.service.Ask(ctx.Context(), session, &req)
	if err != nil {
		return assistantError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Question answered",
		"data":    res,
	})
}

// assistantError maps the provider error classes onto response codes. All
// of them are contained to this one query; resubmitting is always safe.
func assistantError(ctx *fiber.Ctx, err error) error {
	var apiErr *llm.APIError

	status := fiber.StatusBadRequest
	message := err.Error()
	switch {
	case errors.Is(err, retry.ErrRetriesExhausted):
		status = fiber.StatusTooManyRequests
		message = "The assistant is rate limited right now, try again in a moment"
	case errors.Is(err, llm.ErrTimeout):
		status = fiber.StatusGatewayTimeout
		message = "The assistant took too long to answer, try again"
	case errors.As(err, &apiErr):
		status = fiber.StatusBadGateway
		message = "The assistant failed to answer, try again"
	}
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    status,
		"message": message,
	})
}
