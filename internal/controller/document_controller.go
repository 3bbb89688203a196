package controller

import (
	"doceasy-be/internal/dto"
	"doceasy-be/internal/pkg/serverutils"
	"doceasy-be/internal/service"
	"doceasy-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	GetByProject(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
	hub     *websocket.Hub
}

func NewDocumentController(service service.IDocumentService, hub *websocket.Hub) IDocumentController {
	return &documentController{service: service, hub: hub}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Use(serverutils.JwtMiddleware)
	// Upload without a project auto-creates one
	h.Post("/upload", c.Upload)
	h.Post("/project/:projectId/upload", c.Upload)
	h.Get("/project/:projectId", c.GetByProject)
	h.Get(":id", c.Get)
	h.Get(":id/download", c.Download)
	h.Delete(":id", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart form required")
	}

	files := form.File["files"]

	var projectId *uuid.UUID
	raw := ctx.Params("projectId")
	if raw == "" {
		raw = ctx.FormValue("project_id")
	}
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid project_id")
		}
		projectId = &id
	}

	onProgress := func(p dto.UploadProgress) {
		c.hub.PushUploadProgress(userId, p)
	}

	res, err := c.service.Upload(ctx.Context(), userId, projectId, files, onProgress)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Upload finished", res))
}

func (c *documentController) Get(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.Get(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get document", res))
}

func (c *documentController) Download(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.service.Download(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success sign download link", res))
}

func (c *documentController) GetByProject(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	projectId, _ := uuid.Parse(ctx.Params("projectId"))

	res, err := c.service.GetByProject(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get documents", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.service.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}
