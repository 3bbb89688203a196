package controller

import (
	"doceasy-be/internal/pkg/serverutils"
	"doceasy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMarketDataController interface {
	RegisterRoutes(r fiber.Router)
	GetCSV(ctx *fiber.Ctx) error
	Sync(ctx *fiber.Ctx) error
}

type marketDataController struct {
	service service.IMarketDataService
}

func NewMarketDataController(service service.IMarketDataService) IMarketDataController {
	return &marketDataController{service: service}
}

func (c *marketDataController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/marketdata/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/csv/:fileId", c.GetCSV)
	h.Post("/sync", c.Sync)
}

func (c *marketDataController) GetCSV(ctx *fiber.Ctx) error {
	fileId := ctx.Params("fileId")

	data, err := c.service.GetCSV(ctx.Context(), fileId)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	ctx.Set(fiber.HeaderContentType, "text/csv")
	return ctx.Send(data)
}

func (c *marketDataController) Sync(ctx *fiber.Ctx) error {
	if err := c.service.SyncAll(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Market data synced", nil))
}
