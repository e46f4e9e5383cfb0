package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcare/internal/middleware"
	"fleetcare/internal/service"
	"fleetcare/pkg/pagination"
	"fleetcare/pkg/response"
)

type ComplaintHandler struct {
	complaintService service.ComplaintService
}

// NewComplaintHandler sets up the routing dependencies for Complaint endpoints
func NewComplaintHandler(complaintService service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ComplaintHandler) RegisterRoutes(router *gin.RouterGroup) {
	complaints := router.Group("/api/complaints", middleware.RequireIdentity())
	{
		complaints.GET("", h.ListComplaints)
		complaints.GET("/:id", h.GetComplaint)
		complaints.POST("", h.CreateComplaint)
		complaints.PUT("/:id", h.UpdateComplaint)
		complaints.DELETE("/:id", h.DeleteComplaint)
	}
}

// ListComplaints returns the complaints visible to the caller
// @Summary      List complaints
// @Tags         complaints
// @Security     BearerAuth
// @Produce      json
// @Param        page                       query  int  false  "Page number (default: 1)"
// @Param        limit                      query  int  false  "Items per page (default: 20)"
// @Param        failure_node               query  int  false  "Filter by failure node ID"
// @Param        recovery_method            query  int  false  "Filter by recovery method ID"
// @Param        service_company_complaint  query  int  false  "Filter by service company ID"
// @Success      200  {object}  response.Response
// @Router       /api/complaints [get]
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	p := pagination.Parse(c)

	rows, total, err := h.complaintService.List(c.Request.Context(), ident, queryParams(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, rows, p.Page, p.Limit, total))
}

// GetComplaint returns one complaint by ID
// @Summary      Get complaint
// @Tags         complaints
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Complaint ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/complaints/{id} [get]
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	row, err := h.complaintService.Get(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

// CreateComplaint files a complaint (clients are forbidden)
// @Summary      Create complaint
// @Tags         complaints
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateComplaintRequest  true  "Complaint payload"
// @Success      201  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/complaints [post]
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	var req service.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	row, err := h.complaintService.Create(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, row))
}

// UpdateComplaint updates an owned complaint
// @Summary      Update complaint
// @Tags         complaints
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                             true  "Complaint ID"
// @Param        payload  body  service.UpdateComplaintRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/complaints/{id} [put]
func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	row, err := h.complaintService.Update(c.Request.Context(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

// DeleteComplaint removes an owned complaint
// @Summary      Delete complaint
// @Tags         complaints
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Complaint ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/complaints/{id} [delete]
func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.complaintService.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		status := statusFor(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
