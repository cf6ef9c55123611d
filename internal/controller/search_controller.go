package controller

import (
	"strings"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/pkg/serverutils"
	"ai-search-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	SearchPost(ctx *fiber.Ctx) error
	Suggest(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
}

func NewSearchController(searchService service.ISearchService) ISearchController {
	return &searchController{
		searchService: searchService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Get("", c.Search)
	h.Post("", c.SearchPost)
	h.Get("suggest", c.Suggest)
}

// Search reads the query from the URL: q, mode, collections and status as
// comma separated lists, author, limit, offset.
func (c *searchController) Search(ctx *fiber.Ctx) error {
	req := dto.SearchRequest{
		Query: ctx.Query("q"),
		Mode:  ctx.Query("mode"),
		Filters: dto.SearchFiltersRequest{
			Collections: splitList(ctx.Query("collections")),
			Status:      splitList(ctx.Query("status")),
			Author:      ctx.Query("author"),
		},
		Limit:  ctx.QueryInt("limit", 0),
		Offset: ctx.QueryInt("offset", 0),
	}
	return c.run(ctx, &req)
}

func (c *searchController) SearchPost(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return c.run(ctx, &req)
}

func (c *searchController) run(ctx *fiber.Ctx, req *dto.SearchRequest) error {
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.Search(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search completed", res))
}

func (c *searchController) Suggest(ctx *fiber.Ctx) error {
	suggestions, err := c.searchService.Suggest(ctx.UserContext(), ctx.Query("q"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Suggestions", dto.SuggestResponse{Suggestions: suggestions}))
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
