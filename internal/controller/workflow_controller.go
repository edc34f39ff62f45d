// FILE: internal/controller/workflow_controller.go
package controller

import (
	"errors"

	"assembly-guide-be/internal/dto"
	"assembly-guide-be/internal/service"
	"assembly-guide-be/pkg/store"
	"assembly-guide-be/pkg/workflow"

	"github.com/gofiber/fiber/v2"
)

type IWorkflowController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	State(ctx *fiber.Ctx) error
	ConfirmParts(ctx *fiber.Ctx) error
	ConfirmPage(ctx *fiber.Ctx) error
	ConfirmReceived(ctx *fiber.Ctx) error
	Advance(ctx *fiber.Ctx) error
	NextSubtask(ctx *fiber.Ctx) error
}

type workflowController struct {
	service service.IWorkflowService
}

func NewWorkflowController(service service.IWorkflowService) IWorkflowController {
	return &workflowController{service: service}
}

func (c *workflowController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/workflow")
	for _, m := range middleware {
		h.Use(m)
	}
	h.Get("/state", c.State)
	h.Post("/confirm-parts", c.ConfirmParts)
	h.Post("/confirm-page", c.ConfirmPage)
	h.Post("/confirm-received", c.ConfirmReceived)
	h.Post("/advance", c.Advance)
	h.Post("/next-subtask", c.NextSubtask)
}

func sessionFromLocals(ctx *fiber.Ctx) *store.Session {
	return ctx.Locals("session").(*store.Session)
}

func (c *workflowController) State(ctx *fiber.Ctx) error {
	res, err := c.service.State(sessionFromLocals(ctx))
	if err != nil {
		return workflowError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Current state",
		"data":    res,
	})
}

func (c *workflowController) ConfirmParts(ctx *fiber.Ctx) error {
	res, err := c.service.ConfirmParts(sessionFromLocals(ctx))
	if err != nil {
		return workflowError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Parts collection confirmed",
		"data":    res,
	})
}

func (c *workflowController) ConfirmPage(ctx *fiber.Ctx) error {
	var req dto.ConfirmPageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.ConfirmPage(sessionFromLocals(ctx), &req)
	if err != nil {
		return workflowError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Page confirmed",
		"data":    res,
	})
}

func (c *workflowController) ConfirmReceived(ctx *fiber.Ctx) error {
	res, err := c.service.ConfirmReceived(sessionFromLocals(ctx))
	if err != nil {
		return workflowError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Handover receipt confirmed",
		"data":    res,
	})
}

func (c *workflowController) Advance(ctx *fiber.Ctx) error {
	res, err := c.service.Advance(sessionFromLocals(ctx))
	if err != nil {
		return workflowError(ctx, err)
	}
	message := "Step advanced"
	if !res.Advanced {
		message = "Step not advanced"
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": message,
		"data":    res,
	})
}

func (c *workflowController) NextSubtask(ctx *fiber.Ctx) error {
	res, err := c.service.NextSubtask(sessionFromLocals(ctx))
	if err != nil {
		return workflowError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Moved to the next subtask",
		"data":    res,
	})
}

// workflowError maps domain errors to response codes. Rejected actions are
// 4xx and never corrupt the session state.
func workflowError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, workflow.ErrPageNotInSubtask), errors.Is(err, workflow.ErrWrongStep):
		status = fiber.StatusBadRequest
	case errors.Is(err, workflow.ErrCompleted):
		status = fiber.StatusConflict
	}
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    status,
		"message": err.Error(),
	})
}
