package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleetcare/internal/middleware"
	"fleetcare/internal/service"
	"fleetcare/pkg/pagination"
	"fleetcare/pkg/response"
)

type MachineHandler struct {
	machineService service.MachineService
}

// NewMachineHandler sets up the routing dependencies for Machine endpoints
func NewMachineHandler(machineService service.MachineService) *MachineHandler {
	return &MachineHandler{machineService: machineService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *MachineHandler) RegisterRoutes(router *gin.RouterGroup) {
	machines := router.Group("/api/machines", middleware.RequireIdentity())
	{
		machines.GET("", h.ListMachines)
		machines.GET("/:id", h.GetMachine)
		machines.POST("", h.CreateMachine)
		machines.PUT("/:id", h.UpdateMachine)
		machines.DELETE("/:id", h.DeleteMachine)
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "not found"))
		return 0, false
	}
	return uint(v), true
}

// ListMachines returns the machines visible to the caller
// @Summary      List machines
// @Tags         machines
// @Security     BearerAuth
// @Produce      json
// @Param        page                query  int     false  "Page number (default: 1)"
// @Param        limit               query  int     false  "Items per page (default: 20)"
// @Param        technique_model     query  int     false  "Filter by technique model ID"
// @Param        engine_model        query  int     false  "Filter by engine model ID"
// @Param        transmission_model  query  int     false  "Filter by transmission model ID"
// @Param        drive_axle_model    query  int     false  "Filter by drive axle model ID"
// @Param        steering_axle_model query  int     false  "Filter by steering axle model ID"
// @Success      200  {object}  response.Response
// @Router       /api/machines [get]
func (h *MachineHandler) ListMachines(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	p := pagination.Parse(c)

	machines, total, err := h.machineService.List(c.Request.Context(), ident, queryParams(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, machines, p.Page, p.Limit, total))
}

// GetMachine returns one machine by ID
// @Summary      Get machine
// @Tags         machines
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Machine ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/machines/{id} [get]
func (h *MachineHandler) GetMachine(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	machine, err := h.machineService.Get(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, machine))
}

// CreateMachine creates a new machine (elevated identities only)
// @Summary      Create machine
// @Tags         machines
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateMachineRequest  true  "Machine payload"
// @Success      201  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/machines [post]
func (h *MachineHandler) CreateMachine(c *gin.Context) {
	var req service.CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	machine, err := h.machineService.Create(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, machine))
}

// UpdateMachine updates an existing machine (elevated identities only)
// @Summary      Update machine
// @Tags         machines
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                           true  "Machine ID"
// @Param        payload  body  service.UpdateMachineRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/machines/{id} [put]
func (h *MachineHandler) UpdateMachine(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	machine, err := h.machineService.Update(c.Request.Context(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, machine))
}

// DeleteMachine removes a machine and its maintenance/complaint history
// @Summary      Delete machine
// @Tags         machines
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Machine ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/machines/{id} [delete]
func (h *MachineHandler) DeleteMachine(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.machineService.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
