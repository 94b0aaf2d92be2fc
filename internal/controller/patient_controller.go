package controller

import (
	"errors"

	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/pkg/serverutils"
	"discharge-care-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPatientController interface {
	RegisterRoutes(r fiber.Router, adminMiddleware fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Lookup(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
}

type patientController struct {
	patientService service.IPatientService
}

func NewPatientController(patientService service.IPatientService) IPatientController {
	return &patientController{patientService: patientService}
}

func (c *patientController) RegisterRoutes(r fiber.Router, adminMiddleware fiber.Handler) {
	h := r.Group("/patient/v1")
	h.Get("/", adminMiddleware, c.GetAll)
	h.Post("/", adminMiddleware, c.Create)
	h.Post("/lookup", c.Lookup)
}

func (c *patientController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.patientService.GetAll(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all patients", res))
}

func (c *patientController) Lookup(ctx *fiber.Ctx) error {
	var req dto.PatientLookupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.patientService.Lookup(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success lookup patient", res))
}

func (c *patientController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePatientRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.patientService.Create(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrPatientExists) {
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Patient created", res))
}
