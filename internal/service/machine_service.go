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

// dateLayout is the wire format for all date fields.
const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// --- DTOs ---

type CreateMachineRequest struct {
	SerialNumber        string `json:"serial_number" binding:"required"`
	TechniqueModelID    uint   `json:"technique_model_id" binding:"required"`
	EngineModelID       uint   `json:"engine_model_id" binding:"required"`
	EngineSerial        string `json:"engine_serial"`
	TransmissionModelID uint   `json:"transmission_model_id" binding:"required"`
	TransmissionSerial  string `json:"transmission_serial"`
	DriveAxleModelID    uint   `json:"drive_axle_model_id" binding:"required"`
	DriveAxleSerial     string `json:"drive_axle_serial"`
	SteeringAxleModelID uint   `json:"steering_axle_model_id" binding:"required"`
	SteeringAxleSerial  string `json:"steering_axle_serial"`
	SupplyContract      string `json:"supply_contract"`
	ShipmentDate        string `json:"shipment_date" binding:"required,datetime=2006-01-02"`
	Consignee           string `json:"consignee"`
	DeliveryAddress     string `json:"delivery_address"`
	Equipment           string `json:"equipment"`
	ClientID            uint   `json:"client_id" binding:"required"`
	ServiceCompanyID    uint   `json:"service_company_id" binding:"required"`
}

type UpdateMachineRequest struct {
	SerialNumber        *string `json:"serial_number"`
	TechniqueModelID    *uint   `json:"technique_model_id"`
	EngineModelID       *uint   `json:"engine_model_id"`
	EngineSerial        *string `json:"engine_serial"`
	TransmissionModelID *uint   `json:"transmission_model_id"`
	TransmissionSerial  *string `json:"transmission_serial"`
	DriveAxleModelID    *uint   `json:"drive_axle_model_id"`
	DriveAxleSerial     *string `json:"drive_axle_serial"`
	SteeringAxleModelID *uint   `json:"steering_axle_model_id"`
	SteeringAxleSerial  *string `json:"steering_axle_serial"`
	SupplyContract      *string `json:"supply_contract"`
	ShipmentDate        *string `json:"shipment_date" binding:"omitempty,datetime=2006-01-02"`
	Consignee           *string `json:"consignee"`
	DeliveryAddress     *string `json:"delivery_address"`
	Equipment           *string `json:"equipment"`
	ClientID            *uint   `json:"client_id"`
	ServiceCompanyID    *uint   `json:"service_company_id"`
}

type MachineResponse struct {
	ID                  uint   `json:"id"`
	SerialNumber        string `json:"serial_number"`
	TechniqueModelID    uint   `json:"technique_model_id"`
	TechniqueModel      string `json:"technique_model"`
	EngineModelID       uint   `json:"engine_model_id"`
	EngineModel         string `json:"engine_model"`
	EngineSerial        string `json:"engine_serial"`
	TransmissionModelID uint   `json:"transmission_model_id"`
	TransmissionModel   string `json:"transmission_model"`
	TransmissionSerial  string `json:"transmission_serial"`
	DriveAxleModelID    uint   `json:"drive_axle_model_id"`
	DriveAxleModel      string `json:"drive_axle_model"`
	DriveAxleSerial     string `json:"drive_axle_serial"`
	SteeringAxleModelID uint   `json:"steering_axle_model_id"`
	SteeringAxleModel   string `json:"steering_axle_model"`
	SteeringAxleSerial  string `json:"steering_axle_serial"`
	SupplyContract      string `json:"supply_contract"`
	ShipmentDate        string `json:"shipment_date"`
	Consignee           string `json:"consignee"`
	DeliveryAddress     string `json:"delivery_address"`
	Equipment           string `json:"equipment"`
	ClientID            uint   `json:"client_id"`
	Client              string `json:"client"`
	ServiceCompanyID    uint   `json:"service_company_id"`
	ServiceCompany      string `json:"service_company"`
}

// SerialSearchResult is the public dashboard serial-number lookup outcome.
type SerialSearchResult struct {
	Found   bool             `json:"found"`
	Machine *MachineResponse `json:"machine,omitempty"`
	Message string           `json:"message,omitempty"`
}

// --- Interface ---

// MachineService carries the machine rules: creation (and any mutation) is
// elevated-only, reads go through the visibility scope.
type MachineService interface {
	List(ctx context.Context, ident scope.Identity, params map[string]string, page, limit int) ([]MachineResponse, int64, error)
	Get(ctx context.Context, ident scope.Identity, id uint) (*MachineResponse, error)
	Create(ctx context.Context, ident scope.Identity, req CreateMachineRequest) (*MachineResponse, error)
	Update(ctx context.Context, ident scope.Identity, id uint, req UpdateMachineRequest) (*MachineResponse, error)
	Delete(ctx context.Context, ident scope.Identity, id uint) error
	SearchBySerial(ctx context.Context, serial string) (*SerialSearchResult, error)
}

type machineService struct {
	repo repository.MachineRepository
	hub  *events.Hub
}

// NewMachineService returns a new instance of MachineService
func NewMachineService(repo repository.MachineRepository, hub *events.Hub) MachineService {
	return &machineService{repo: repo, hub: hub}
}

func (s *machineService) publish(eventType string, id uint) {
	if s.hub != nil {
		s.hub.Publish(events.Event{Type: eventType, Entity: events.EntityMachine, ID: id})
	}
}

func toMachineResponse(m *model.Machine) *MachineResponse {
	return &MachineResponse{
		ID:                  m.ID,
		SerialNumber:        m.SerialNumber,
		TechniqueModelID:    m.TechniqueModelID,
		TechniqueModel:      m.TechniqueModel.Name,
		EngineModelID:       m.EngineModelID,
		EngineModel:         m.EngineModel.Name,
		EngineSerial:        m.EngineSerial,
		TransmissionModelID: m.TransmissionModelID,
		TransmissionModel:   m.TransmissionModel.Name,
		TransmissionSerial:  m.TransmissionSerial,
		DriveAxleModelID:    m.DriveAxleModelID,
		DriveAxleModel:      m.DriveAxleModel.Name,
		DriveAxleSerial:     m.DriveAxleSerial,
		SteeringAxleModelID: m.SteeringAxleModelID,
		SteeringAxleModel:   m.SteeringAxleModel.Name,
		SteeringAxleSerial:  m.SteeringAxleSerial,
		SupplyContract:      m.SupplyContract,
		ShipmentDate:        formatDate(m.ShipmentDate),
		Consignee:           m.Consignee,
		DeliveryAddress:     m.DeliveryAddress,
		Equipment:           m.Equipment,
		ClientID:            m.ClientID,
		Client:              m.Client.Name,
		ServiceCompanyID:    m.ServiceCompanyID,
		ServiceCompany:      m.ServiceCompany.Name,
	}
}

func (s *machineService) List(ctx context.Context, ident scope.Identity, params map[string]string, page, limit int) ([]MachineResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	machines, total, err := s.repo.List(ctx, ident, params, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch machines: %w", err)
	}

	res := make([]MachineResponse, 0, len(machines))
	for i := range machines {
		res = append(res, *toMachineResponse(&machines[i]))
	}
	return res, total, nil
}

func (s *machineService) Get(ctx context.Context, ident scope.Identity, id uint) (*MachineResponse, error) {
	m, err := s.repo.GetByID(ctx, ident, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMachineResponse(m), nil
}

func (s *machineService) Create(ctx context.Context, ident scope.Identity, req CreateMachineRequest) (*MachineResponse, error) {
	if !ident.Authenticated {
		return nil, ErrNotAuthenticated
	}
	if !ident.Unrestricted() {
		// Unlike reads, an unauthorized create is reported explicitly.
		return nil, ErrAccessDenied
	}

	shipmentDate, err := parseDate(req.ShipmentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid shipment_date: %w", err)
	}

	m := &model.Machine{
		SerialNumber:        req.SerialNumber,
		TechniqueModelID:    req.TechniqueModelID,
		EngineModelID:       req.EngineModelID,
		EngineSerial:        req.EngineSerial,
		TransmissionModelID: req.TransmissionModelID,
		TransmissionSerial:  req.TransmissionSerial,
		DriveAxleModelID:    req.DriveAxleModelID,
		DriveAxleSerial:     req.DriveAxleSerial,
		SteeringAxleModelID: req.SteeringAxleModelID,
		SteeringAxleSerial:  req.SteeringAxleSerial,
		SupplyContract:      req.SupplyContract,
		ShipmentDate:        shipmentDate,
		Consignee:           req.Consignee,
		DeliveryAddress:     req.DeliveryAddress,
		Equipment:           req.Equipment,
		ClientID:            req.ClientID,
		ServiceCompanyID:    req.ServiceCompanyID,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}

	s.publish(events.TypeCreated, m.ID)
	return toMachineResponse(m), nil
}

func (s *machineService) Update(ctx context.Context, ident scope.Identity, id uint, req UpdateMachineRequest) (*MachineResponse, error) {
	if !ident.Authenticated {
		return nil, ErrNotAuthenticated
	}
	if !ident.Unrestricted() {
		return nil, ErrAccessDenied
	}

	m, err := s.repo.GetByID(ctx, ident, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.SerialNumber != nil {
		if *req.SerialNumber == "" {
			return nil, fmt.Errorf("serial_number cannot be empty")
		}
		m.SerialNumber = *req.SerialNumber
	}
	if req.TechniqueModelID != nil {
		m.TechniqueModelID = *req.TechniqueModelID
	}
	if req.EngineModelID != nil {
		m.EngineModelID = *req.EngineModelID
	}
	if req.EngineSerial != nil {
		m.EngineSerial = *req.EngineSerial
	}
	if req.TransmissionModelID != nil {
		m.TransmissionModelID = *req.TransmissionModelID
	}
	if req.TransmissionSerial != nil {
		m.TransmissionSerial = *req.TransmissionSerial
	}
	if req.DriveAxleModelID != nil {
		m.DriveAxleModelID = *req.DriveAxleModelID
	}
	if req.DriveAxleSerial != nil {
		m.DriveAxleSerial = *req.DriveAxleSerial
	}
	if req.SteeringAxleModelID != nil {
		m.SteeringAxleModelID = *req.SteeringAxleModelID
	}
	if req.SteeringAxleSerial != nil {
		m.SteeringAxleSerial = *req.SteeringAxleSerial
	}
	if req.SupplyContract != nil {
		m.SupplyContract = *req.SupplyContract
	}
	if req.ShipmentDate != nil {
		d, err := parseDate(*req.ShipmentDate)
		if err != nil {
			return nil, fmt.Errorf("invalid shipment_date: %w", err)
		}
		m.ShipmentDate = d
	}
	if req.Consignee != nil {
		m.Consignee = *req.Consignee
	}
	if req.DeliveryAddress != nil {
		m.DeliveryAddress = *req.DeliveryAddress
	}
	if req.Equipment != nil {
		m.Equipment = *req.Equipment
	}
	if req.ClientID != nil {
		m.ClientID = *req.ClientID
	}
	if req.ServiceCompanyID != nil {
		m.ServiceCompanyID = *req.ServiceCompanyID
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update machine: %w", err)
	}

	s.publish(events.TypeUpdated, m.ID)
	return toMachineResponse(m), nil
}

func (s *machineService) Delete(ctx context.Context, ident scope.Identity, id uint) error {
	if !ident.Authenticated {
		return ErrNotAuthenticated
	}
	if !ident.Unrestricted() {
		return ErrAccessDenied
	}

	m, err := s.repo.GetByID(ctx, ident, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	// Maintenance and complaint rows cascade with the machine.
	if err := s.repo.Delete(ctx, m); err != nil {
		return fmt.Errorf("failed to delete machine: %w", err)
	}

	s.publish(events.TypeDeleted, id)
	return nil
}

// SearchBySerial is the public exact-serial lookup on the dashboard.
func (s *machineService) SearchBySerial(ctx context.Context, serial string) (*SerialSearchResult, error) {
	m, err := s.repo.GetBySerial(ctx, serial)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SerialSearchResult{
				Found:   false,
				Message: "No machine with this serial number is known to the system",
			}, nil
		}
		return nil, err
	}
	return &SerialSearchResult{Found: true, Machine: toMachineResponse(m)}, nil
}
