package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_assistant/internal/utils"
)

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found in catalog")
	case errors.Is(err, utils.ErrCategoryNotFound):
		utils.Error(c, 404, "CATEGORY_NOT_FOUND", "Category not found in catalog")
	case errors.Is(err, utils.ErrSessionNotFound):
		utils.Error(c, 401, "SESSION_EXPIRED", "Session not found or expired")
	case errors.Is(err, utils.ErrDatasetNotLoaded):
		utils.Error(c, 503, "CATALOG_UNAVAILABLE", "Catalog is not loaded yet")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
