package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcare/internal/service"
	"fleetcare/pkg/response"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler sets up the routing dependencies for catalog endpoints
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup.
// Catalogs are reference data without ownership; no identity is required.
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/catalogs", h.ListCatalogs)
}

// ListCatalogs returns all reference lists used by forms and filters
// @Summary      List catalogs
// @Tags         catalogs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/catalogs [get]
func (h *CatalogHandler) ListCatalogs(c *gin.Context) {
	catalogs, err := h.catalogService.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, catalogs))
}
