package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fleetcare/internal/events"
	"fleetcare/internal/model"
	"fleetcare/internal/repository"
	"fleetcare/internal/scope"
)

// --- DTOs ---

// Note: downtime is absent on purpose. It is derived from the two dates on
// every write and never accepted from callers.
type CreateComplaintRequest struct {
	MachineID          uint   `json:"machine_id" binding:"required"`
	FailureDate        string `json:"failure_date" binding:"required,datetime=2006-01-02"`
	OperatingHours     int    `json:"operating_hours" binding:"min=0"`
	FailureNodeID      uint   `json:"failure_node_id" binding:"required"`
	FailureDescription string `json:"failure_description" binding:"required"`
	RecoveryMethodID   uint   `json:"recovery_method_id" binding:"required"`
	SpareParts         string `json:"spare_parts"`
	RecoveryDate       string `json:"recovery_date" binding:"omitempty,datetime=2006-01-02"`
	ServiceCompanyID   uint   `json:"service_company_id" binding:"required"`
}

type UpdateComplaintRequest struct {
	FailureDate        *string `json:"failure_date" binding:"omitempty,datetime=2006-01-02"`
	OperatingHours     *int    `json:"operating_hours"`
	FailureNodeID      *uint   `json:"failure_node_id"`
	FailureDescription *string `json:"failure_description"`
	RecoveryMethodID   *uint   `json:"recovery_method_id"`
	SpareParts         *string `json:"spare_parts"`
	RecoveryDate       *string `json:"recovery_date" binding:"omitempty,datetime=2006-01-02"`
	ServiceCompanyID   *uint   `json:"service_company_id"`
}

type ComplaintResponse struct {
	ID                 uint   `json:"id"`
	MachineID          uint   `json:"machine_id"`
	MachineSerial      string `json:"machine_serial"`
	FailureDate        string `json:"failure_date"`
	OperatingHours     int    `json:"operating_hours"`
	FailureNodeID      uint   `json:"failure_node_id"`
	FailureNode        string `json:"failure_node"`
	FailureDescription string `json:"failure_description"`
	RecoveryMethodID   uint   `json:"recovery_method_id"`
	RecoveryMethod     string `json:"recovery_method"`
	SpareParts         string `json:"spare_parts"`
	RecoveryDate       string `json:"recovery_date"`
	Downtime           int    `json:"downtime"`
	ServiceCompanyID   uint   `json:"service_company_id"`
	ServiceCompany     string `json:"service_company"`
}

// --- Interface ---

// ComplaintService carries the complaint rules: clients may read their
// machines' complaints but never create or edit them; creation is for
// managers, service companies and elevated identities.
type ComplaintService interface {
	List(ctx context.Context, ident scope.Identity, params map[string]string, page, limit int) ([]ComplaintResponse, int64, error)
	Get(ctx context.Context, ident scope.Identity, id uint) (*ComplaintResponse, error)
	Create(ctx context.Context, ident scope.Identity, req CreateComplaintRequest) (*ComplaintResponse, error)
	Update(ctx context.Context, ident scope.Identity, id uint, req UpdateComplaintRequest) (*ComplaintResponse, error)
	Delete(ctx context.Context, ident scope.Identity, id uint) error
}

type complaintService struct {
	repo        repository.ComplaintRepository
	machineRepo repository.MachineRepository
	hub         *events.Hub
}

// NewComplaintService returns a new instance of ComplaintService
func NewComplaintService(repo repository.ComplaintRepository, machineRepo repository.MachineRepository, hub *events.Hub) ComplaintService {
	return &complaintService{repo: repo, machineRepo: machineRepo, hub: hub}
}

func (s *complaintService) publish(eventType string, id uint) {
	if s.hub != nil {
		s.hub.Publish(events.Event{Type: eventType, Entity: events.EntityComplaint, ID: id})
	}
}

// canWrite reports whether the identity may create or edit complaints at
// all. Clients are explicitly forbidden regardless of machine ownership.
func canWriteComplaints(ident scope.Identity) bool {
	return ident.Unrestricted() || ident.IsService()
}

func toComplaintResponse(c *model.Complaint) *ComplaintResponse {
	return &ComplaintResponse{
		ID:                 c.ID,
		MachineID:          c.MachineID,
		MachineSerial:      c.Machine.SerialNumber,
		FailureDate:        formatDate(c.FailureDate),
		OperatingHours:     c.OperatingHours,
		FailureNodeID:      c.FailureNodeID,
		FailureNode:        c.FailureNode.Name,
		FailureDescription: c.FailureDescription,
		RecoveryMethodID:   c.RecoveryMethodID,
		RecoveryMethod:     c.RecoveryMethod.Name,
		SpareParts:         c.SpareParts,
		RecoveryDate:       formatDate(c.RecoveryDate),
		Downtime:           c.Downtime,
		ServiceCompanyID:   c.ServiceCompanyID,
		ServiceCompany:     c.ServiceCompany.Name,
	}
}

func (s *complaintService) List(ctx context.Context, ident scope.Identity, params map[string]string, page, limit int) ([]ComplaintResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	rows, total, err := s.repo.List(ctx, ident, params, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch complaints: %w", err)
	}

	res := make([]ComplaintResponse, 0, len(rows))
	for i := range rows {
		res = append(res, *toComplaintResponse(&rows[i]))
	}
	return res, total, nil
}

func (s *complaintService) Get(ctx context.Context, ident scope.Identity, id uint) (*ComplaintResponse, error) {
	c, err := s.repo.GetByID(ctx, ident, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toComplaintResponse(c), nil
}

func (s *complaintService) Create(ctx context.Context, ident scope.Identity, req CreateComplaintRequest) (*ComplaintResponse, error) {
	if !ident.Authenticated {
		return nil, ErrNotAuthenticated
	}
	if !canWriteComplaints(ident) {
		return nil, ErrAccessDenied
	}

	// The machine must still be inside the caller's scope.
	if _, err := s.machineRepo.GetByID(ctx, ident, req.MachineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	failureDate, err := parseDate(req.FailureDate)
	if err != nil {
		return nil, fmt.Errorf("invalid failure_date: %w", err)
	}

	c := &model.Complaint{
		MachineID:          req.MachineID,
		FailureDate:        failureDate,
		OperatingHours:     req.OperatingHours,
		FailureNodeID:      req.FailureNodeID,
		FailureDescription: req.FailureDescription,
		RecoveryMethodID:   req.RecoveryMethodID,
		SpareParts:         req.SpareParts,
		ServiceCompanyID:   req.ServiceCompanyID,
	}
	if req.RecoveryDate != "" {
		recoveryDate, err := parseDate(req.RecoveryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid recovery_date: %w", err)
		}
		c.RecoveryDate = recoveryDate
	}

	// Downtime is filled in by the model's save hook.
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	s.publish(events.TypeCreated, c.ID)

	created, err := s.repo.GetByID(ctx, ident, c.ID)
	if err != nil {
		return nil, err
	}
	return toComplaintResponse(created), nil
}

func (s *complaintService) Update(ctx context.Context, ident scope.Identity, id uint, req UpdateComplaintRequest) (*ComplaintResponse, error) {
	if !ident.Authenticated {
		return nil, ErrNotAuthenticated
	}
	if !canWriteComplaints(ident) {
		return nil, ErrAccessDenied
	}

	c, err := s.repo.GetByID(ctx, ident, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.FailureDate != nil {
		d, err := parseDate(*req.FailureDate)
		if err != nil {
			return nil, fmt.Errorf("invalid failure_date: %w", err)
		}
		c.FailureDate = d
	}
	if req.OperatingHours != nil {
		c.OperatingHours = *req.OperatingHours
	}
	if req.FailureNodeID != nil {
		c.FailureNodeID = *req.FailureNodeID
	}
	if req.FailureDescription != nil {
		c.FailureDescription = *req.FailureDescription
	}
	if req.RecoveryMethodID != nil {
		c.RecoveryMethodID = *req.RecoveryMethodID
	}
	if req.SpareParts != nil {
		c.SpareParts = *req.SpareParts
	}
	if req.RecoveryDate != nil {
		d, err := parseDate(*req.RecoveryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid recovery_date: %w", err)
		}
		c.RecoveryDate = d
	}
	if req.ServiceCompanyID != nil {
		c.ServiceCompanyID = *req.ServiceCompanyID
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}

	s.publish(events.TypeUpdated, c.ID)
	return toComplaintResponse(c), nil
}

func (s *complaintService) Delete(ctx context.Context, ident scope.Identity, id uint) error {
	if !ident.Authenticated {
		return ErrNotAuthenticated
	}
	if !canWriteComplaints(ident) {
		return ErrAccessDenied
	}

	c, err := s.repo.GetByID(ctx, ident, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, c); err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}

	s.publish(events.TypeDeleted, id)
	return nil
}
