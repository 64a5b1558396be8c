package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/catalog_assistant/internal/service"
	"github.com/GTDGit/catalog_assistant/internal/utils"
)

// CatalogHandler serves session-independent catalog and trending endpoints.
type CatalogHandler struct {
	assistant *service.AssistantService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(assistant *service.AssistantService) *CatalogHandler {
	return &CatalogHandler{assistant: assistant}
}

// GetTrending handles GET /v1/trending?limit=N
func (h *CatalogHandler) GetTrending(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.Error(c, 400, "INVALID_LIMIT", "limit must be a non-negative integer")
			return
		}
		if n == 0 {
			utils.Success(c, 200, "Trending products retrieved", gin.H{
				"items":   []interface{}{},
				"message": service.MsgNoTrending,
			})
			return
		}
		limit = n
	}

	items, err := h.assistant.Trending(limit)
	if err != nil {
		handleError(c, err)
		return
	}

	data := gin.H{"items": items}
	if len(items) == 0 {
		data["message"] = service.MsgNoTrending
	}
	utils.Success(c, 200, "Trending products retrieved", data)
}

// GetCategories handles GET /v1/catalog/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.assistant.Categories()
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Categories retrieved", gin.H{"categories": categories})
}

// GetProducts handles GET /v1/catalog/products?category=
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		utils.Error(c, 400, "MISSING_FIELD", "category is required")
		return
	}

	products, err := h.assistant.ProductsInCategory(category)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", gin.H{"products": products})
}
