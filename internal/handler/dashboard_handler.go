package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcare/internal/middleware"
	"fleetcare/internal/service"
	"fleetcare/pkg/pagination"
	"fleetcare/pkg/response"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler sets up the routing dependencies for the dashboard
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup.
// The dashboard is reachable anonymously: unauthenticated callers get
// empty collections and may still use the public serial search.
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/dashboard", middleware.OptionalIdentity(), h.Overview)
}

// Overview returns the combined fleet view
// @Summary      Fleet dashboard
// @Description  Machines, maintenance records and complaints visible to the caller, five rows per sub-list, plus filter dropdown options. Anonymous callers receive empty collections.
// @Tags         dashboard
// @Produce      json
// @Param        page           query  int     false  "Machines page"
// @Param        page_m         query  int     false  "Maintenances page"
// @Param        page_c         query  int     false  "Complaints page"
// @Param        serial_number  query  string  false  "Exact serial number lookup (public)"
// @Success      200  {object}  response.Response
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	q := service.DashboardQuery{
		Params:       queryParams(c),
		SerialSearch: c.Query("serial_number"),
		PageMachines: pagination.ParsePage(c, "page"),
		PageMaint:    pagination.ParsePage(c, "page_m"),
		PageComp:     pagination.ParsePage(c, "page_c"),
	}

	overview, err := h.dashboardService.Overview(c.Request.Context(), middleware.CurrentIdentity(c), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, overview))
}
