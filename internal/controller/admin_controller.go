package controller

import (
	"strconv"

	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/pkg/serverutils"
	"discharge-care-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LogReader is satisfied by *logger.ZapLogger.
type LogReader interface {
	GetLogs(level string, limit, offset int) ([]logger.LogEntry, error)
}

type IAdminController interface {
	RegisterRoutes(r fiber.Router, adminMiddleware fiber.Handler)
	IndexDocument(ctx *fiber.Ctx) error
	ReindexKnowledge(ctx *fiber.Ctx) error
	GetInteractions(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	indexingService    service.IIndexingService
	interactionService service.IInteractionService
	logs               LogReader
	knowledgeDir       string
}

func NewAdminController(
	indexingService service.IIndexingService,
	interactionService service.IInteractionService,
	logs LogReader,
	knowledgeDir string,
) IAdminController {
	return &adminController{
		indexingService:    indexingService,
		interactionService: interactionService,
		logs:               logs,
		knowledgeDir:       knowledgeDir,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router, adminMiddleware fiber.Handler) {
	h := r.Group("/admin/v1", adminMiddleware)

	// Indexing
	h.Post("/index", c.IndexDocument)
	h.Post("/index/reload", c.ReindexKnowledge)

	// Journal
	h.Get("/interactions/:session_id", c.GetInteractions)
	h.Get("/logs", c.GetLogs)
}

// IndexDocument queues the document by default; ?sync=true indexes inline.
func (c *adminController) IndexDocument(ctx *fiber.Ctx) error {
	var req dto.IndexDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if ctx.QueryBool("sync", false) {
		res, err := c.indexingService.IndexDocument(ctx.Context(), &req)
		if err != nil {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(422, err.Error()))
		}
		return ctx.JSON(serverutils.SuccessResponse("Document indexed", res))
	}

	res, err := c.indexingService.QueueDocument(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, err.Error()))
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for indexing", res))
}

func (c *adminController) ReindexKnowledge(ctx *fiber.Ctx) error {
	res, err := c.indexingService.IndexDirectory(ctx.Context(), c.knowledgeDir)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Knowledge directory indexed", res))
}

func (c *adminController) GetInteractions(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "100"))

	res, err := c.interactionService.GetBySession(ctx.Context(), ctx.Params("session_id"), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session interactions", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	level := ctx.Query("level", "")
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 10
	}

	entries, err := c.logs.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	res := make([]dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Details:   e.Details,
			Timestamp: e.Timestamp,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}
