package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fleetcare/internal/events"
	"fleetcare/internal/model"
	"fleetcare/internal/repository"
	"fleetcare/internal/scope"
)

// --- DTOs ---

type CreateMaintenanceRequest struct {
	MachineID        uint   `json:"machine_id" binding:"required"`
	ServiceTypeID    uint   `json:"service_type_id" binding:"required"`
	EventDate        string `json:"event_date" binding:"required,datetime=2006-01-02"`
	OperatingHours   int    `json:"operating_hours" binding:"min=0"`
	OrderNumber      string `json:"order_number"`
	OrderDate        string `json:"order_date" binding:"omitempty,datetime=2006-01-02"`
	ServiceCompanyID uint   `json:"service_company_id" binding:"required"`
}

type UpdateMaintenanceRequest struct {
	ServiceTypeID    *uint   `json:"service_type_id"`
	EventDate        *string `json:"event_date" binding:"omitempty,datetime=2006-01-02"`
	OperatingHours   *int    `json:"operating_hours"`
	OrderNumber      *string `json:"order_number"`
	OrderDate        *string `json:"order_date" binding:"omitempty,datetime=2006-01-02"`
	ServiceCompanyID *uint   `json:"service_company_id"`
}

type MaintenanceResponse struct {
	ID               uint   `json:"id"`
	MachineID        uint   `json:"machine_id"`
	MachineSerial    string `json:"machine_serial"`
	ServiceTypeID    uint   `json:"service_type_id"`
	ServiceType      string `json:"service_type"`
	EventDate        string `json:"event_date"`
	OperatingHours   int    `json:"operating_hours"`
	OrderNumber      string `json:"order_number"`
	OrderDate        string `json:"order_date"`
	ServiceCompanyID uint   `json:"service_company_id"`
	ServiceCompany   string `json:"service_company"`
}

// --- Interface ---

// MaintenanceService carries the maintenance rules: any authenticated role
// may record maintenance, but only against a machine inside its visibility
// scope, and the (machine, date, service type) pair must be unique.
type MaintenanceService interface {
	List(ctx context.Context, ident scope.Identity, params map[string]string, page, limit int) ([]MaintenanceResponse, int64, error)
	Get(ctx context.Context, ident scope.Identity, id uint) (*MaintenanceResponse, error)
	Create(ctx context.Context, ident scope.Identity, req CreateMaintenanceRequest) (*MaintenanceResponse, error)
	Update(ctx context.Context, ident scope.Identity, id uint, req UpdateMaintenanceRequest) (*MaintenanceResponse, error)
	Delete(ctx context.Context, ident scope.Identity, id uint) error
}

type maintenanceService struct {
	repo        repository.MaintenanceRepository
	machineRepo repository.MachineRepository
	hub         *events.Hub
}

// NewMaintenanceService returns a new instance of MaintenanceService
func NewMaintenanceService(repo repository.MaintenanceRepository, machineRepo repository.MachineRepository, hub *events.Hub) MaintenanceService {
	return &maintenanceService{repo: repo, machineRepo: machineRepo, hub: hub}
}

func (s *maintenanceService) publish(eventType string, id uint) {
	if s.hub != nil {
		s.hub.Publish(events.Event{Type: eventType, Entity: events.EntityMaintenance, ID: id})
	}
}

func toMaintenanceResponse(m *model.Maintenance) *MaintenanceResponse {
	return &MaintenanceResponse{
		ID:               m.ID,
		MachineID:        m.MachineID,
		MachineSerial:    m.Machine.SerialNumber,
		ServiceTypeID:    m.ServiceTypeID,
		ServiceType:      m.ServiceType.Name,
		EventDate:        formatDate(m.EventDate),
		OperatingHours:   m.OperatingHours,
		OrderNumber:      m.OrderNumber,
		OrderDate:        formatDate(m.OrderDate),
		ServiceCompanyID: m.ServiceCompanyID,
		ServiceCompany:   m.ServiceCompany.Name,
	}
}

func (s *maintenanceService) List(ctx context.Context, ident scope.Identity, params map[string]string, page, limit int) ([]MaintenanceResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	rows, total, err := s.repo.List(ctx, ident, params, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch maintenances: %w", err)
	}

	res := make([]MaintenanceResponse, 0, len(rows))
	for i := range rows {
		res = append(res, *toMaintenanceResponse(&rows[i]))
	}
	return res, total, nil
}

func (s *maintenanceService) Get(ctx context.Context, ident scope.Identity, id uint) (*MaintenanceResponse, error) {
	m, err := s.repo.GetByID(ctx, ident, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMaintenanceResponse(m), nil
}

func (s *maintenanceService) Create(ctx context.Context, ident scope.Identity, req CreateMaintenanceRequest) (*MaintenanceResponse, error) {
	if !ident.Authenticated {
		return nil, ErrNotAuthenticated
	}

	// The target machine must be inside the caller's scope; pointing at
	// someone else's machine surfaces as not found.
	if _, err := s.machineRepo.GetByID(ctx, ident, req.MachineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	eventDate, err := parseDate(req.EventDate)
	if err != nil {
		return nil, fmt.Errorf("invalid event_date: %w", err)
	}

	m := &model.Maintenance{
		MachineID:        req.MachineID,
		ServiceTypeID:    req.ServiceTypeID,
		EventDate:        eventDate,
		OperatingHours:   req.OperatingHours,
		OrderNumber:      req.OrderNumber,
		ServiceCompanyID: req.ServiceCompanyID,
	}
	if req.OrderDate != "" {
		orderDate, err := parseDate(req.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("invalid order_date: %w", err)
		}
		m.OrderDate = orderDate
	}

	if err := s.checkDuplicate(ctx, m.MachineID, eventDate, m.ServiceTypeID, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create maintenance: %w", err)
	}

	s.publish(events.TypeCreated, m.ID)

	created, err := s.repo.GetByID(ctx, ident, m.ID)
	if err != nil {
		return nil, err
	}
	return toMaintenanceResponse(created), nil
}

func (s *maintenanceService) Update(ctx context.Context, ident scope.Identity, id uint, req UpdateMaintenanceRequest) (*MaintenanceResponse, error) {
	if !ident.Authenticated {
		return nil, ErrNotAuthenticated
	}

	m, err := s.repo.GetByID(ctx, ident, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.ServiceTypeID != nil {
		m.ServiceTypeID = *req.ServiceTypeID
	}
	if req.EventDate != nil {
		d, err := parseDate(*req.EventDate)
		if err != nil {
			return nil, fmt.Errorf("invalid event_date: %w", err)
		}
		m.EventDate = d
	}
	if req.OperatingHours != nil {
		m.OperatingHours = *req.OperatingHours
	}
	if req.OrderNumber != nil {
		m.OrderNumber = *req.OrderNumber
	}
	if req.OrderDate != nil {
		d, err := parseDate(*req.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("invalid order_date: %w", err)
		}
		m.OrderDate = d
	}
	if req.ServiceCompanyID != nil {
		m.ServiceCompanyID = *req.ServiceCompanyID
	}

	if err := s.checkDuplicate(ctx, m.MachineID, m.EventDate, m.ServiceTypeID, m.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update maintenance: %w", err)
	}

	s.publish(events.TypeUpdated, m.ID)
	return toMaintenanceResponse(m), nil
}

func (s *maintenanceService) Delete(ctx context.Context, ident scope.Identity, id uint) error {
	if !ident.Authenticated {
		return ErrNotAuthenticated
	}

	m, err := s.repo.GetByID(ctx, ident, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, m); err != nil {
		return fmt.Errorf("failed to delete maintenance: %w", err)
	}

	s.publish(events.TypeDeleted, id)
	return nil
}

// checkDuplicate enforces the one-event-per-(machine, date, service type)
// rule before any write, so callers get a readable conflict message instead
// of a database constraint failure. The unique index still backs it up
// under concurrent writers.
func (s *maintenanceService) checkDuplicate(ctx context.Context, machineID uint, eventDate time.Time, serviceTypeID, excludeID uint) error {
	exists, err := s.repo.ExistsDuplicate(ctx, machineID, eventDate, serviceTypeID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: a maintenance record with this machine, date and service type already exists", ErrConflict)
	}
	return nil
}
