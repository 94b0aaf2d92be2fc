package controller

import (
	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/pkg/serverutils"
	"discharge-care-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type systemController struct {
	systemService service.ISystemService
}

func NewSystemController(systemService service.ISystemService) ISystemController {
	return &systemController{systemService: systemService}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/system/v1")
	h.Get("/health", c.Health)
	h.Get("/status", c.Status)
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", dto.HealthResponse{Status: "healthy"}))
}

func (c *systemController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("System status", c.systemService.Status(ctx.Context())))
}
