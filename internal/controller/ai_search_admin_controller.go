package controller

import (
	"errors"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/pkg/serverutils"
	"ai-search-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAISearchAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetSettings(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	GetCollections(ctx *fiber.Ctx) error
	GetNewCollections(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
	GetAnalytics(ctx *fiber.Ctx) error
}

type aiSearchAdminController struct {
	settingsService service.ISettingsService
	indexService    service.IIndexService
	searchService   service.ISearchService
	jwtSecret       string
}

func NewAISearchAdminController(
	settingsService service.ISettingsService,
	indexService service.IIndexService,
	searchService service.ISearchService,
	jwtSecret string,
) IAISearchAdminController {
	return &aiSearchAdminController{
		settingsService: settingsService,
		indexService:    indexService,
		searchService:   searchService,
		jwtSecret:       jwtSecret,
	}
}

func (c *aiSearchAdminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/ai-search")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret), serverutils.AdminOnly)
	h.Get("settings", c.GetSettings)
	h.Put("settings", c.UpdateSettings)
	h.Get("status", c.GetStatus)
	h.Get("collections", c.GetCollections)
	h.Get("new-collections", c.GetNewCollections)
	h.Post("reindex", c.Reindex)
	h.Get("analytics", c.GetAnalytics)
}

func (c *aiSearchAdminController) GetSettings(ctx *fiber.Ctx) error {
	res, err := c.settingsService.GetSettings(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("AI search settings", res))
}

func (c *aiSearchAdminController) UpdateSettings(ctx *fiber.Ctx) error {
	var req dto.UpdateAISearchSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.settingsService.UpdateSettings(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("AI search settings updated", res))
}

func (c *aiSearchAdminController) GetStatus(ctx *fiber.Ctx) error {
	res, err := c.indexService.GetAllIndexStatus(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Index status", res))
}

func (c *aiSearchAdminController) GetCollections(ctx *fiber.Ctx) error {
	res, err := c.searchService.GetAllCollections(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Collections", res))
}

func (c *aiSearchAdminController) GetNewCollections(ctx *fiber.Ctx) error {
	res, err := c.searchService.DetectNewCollections(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("New collections", res))
}

func (c *aiSearchAdminController) Reindex(ctx *fiber.Ctx) error {
	var req dto.ReindexRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.indexService.Reindex(ctx.UserContext(), &req)
	if errors.Is(err, service.ErrCollectionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Collection not found")
	}
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Reindex queued", res))
}

func (c *aiSearchAdminController) GetAnalytics(ctx *fiber.Ctx) error {
	res, err := c.searchService.GetAnalytics(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Search analytics", res))
}
