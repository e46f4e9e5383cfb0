package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcare/internal/middleware"
	"fleetcare/internal/service"
	"fleetcare/pkg/pagination"
	"fleetcare/pkg/response"
)

type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
}

// NewMaintenanceHandler sets up the routing dependencies for Maintenance endpoints
func NewMaintenanceHandler(maintenanceService service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *MaintenanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	maintenances := router.Group("/api/maintenances", middleware.RequireIdentity())
	{
		maintenances.GET("", h.ListMaintenances)
		maintenances.GET("/:id", h.GetMaintenance)
		maintenances.POST("", h.CreateMaintenance)
		maintenances.PUT("/:id", h.UpdateMaintenance)
		maintenances.DELETE("/:id", h.DeleteMaintenance)
	}
}

// ListMaintenances returns the maintenance records visible to the caller
// @Summary      List maintenance records
// @Tags         maintenances
// @Security     BearerAuth
// @Produce      json
// @Param        page                query  int     false  "Page number (default: 1)"
// @Param        limit               query  int     false  "Items per page (default: 20)"
// @Param        service_type        query  int     false  "Filter by service type ID"
// @Param        car_serial_to       query  string  false  "Filter by machine serial substring"
// @Param        service_company_to  query  int     false  "Filter by performing organization ID"
// @Success      200  {object}  response.Response
// @Router       /api/maintenances [get]
func (h *MaintenanceHandler) ListMaintenances(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	p := pagination.Parse(c)

	rows, total, err := h.maintenanceService.List(c.Request.Context(), ident, queryParams(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, rows, p.Page, p.Limit, total))
}

// GetMaintenance returns one maintenance record by ID
// @Summary      Get maintenance record
// @Tags         maintenances
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Maintenance ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/maintenances/{id} [get]
func (h *MaintenanceHandler) GetMaintenance(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	row, err := h.maintenanceService.Get(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

// CreateMaintenance records a maintenance event for a visible machine
// @Summary      Create maintenance record
// @Tags         maintenances
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateMaintenanceRequest  true  "Maintenance payload"
// @Success      201  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/maintenances [post]
func (h *MaintenanceHandler) CreateMaintenance(c *gin.Context) {
	var req service.CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	row, err := h.maintenanceService.Create(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, row))
}

// UpdateMaintenance updates an owned maintenance record
// @Summary      Update maintenance record
// @Tags         maintenances
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                               true  "Maintenance ID"
// @Param        payload  body  service.UpdateMaintenanceRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/maintenances/{id} [put]
func (h *MaintenanceHandler) UpdateMaintenance(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	row, err := h.maintenanceService.Update(c.Request.Context(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

// DeleteMaintenance removes an owned maintenance record
// @Summary      Delete maintenance record
// @Tags         maintenances
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Maintenance ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/maintenances/{id} [delete]
func (h *MaintenanceHandler) DeleteMaintenance(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.maintenanceService.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
