package repository

import (
	"context"

	"gorm.io/gorm"

	"fleetcare/internal/model"
	"fleetcare/internal/scope"
)

// MachineRepository defines data access for Machine entities. Every read
// that acts on behalf of an identity applies the visibility scope, so rows
// outside the identity's scope come back as gorm.ErrRecordNotFound.
type MachineRepository interface {
	Create(ctx context.Context, m *model.Machine) error
	GetByID(ctx context.Context, ident scope.Identity, id uint) (*model.Machine, error)
	GetBySerial(ctx context.Context, serial string) (*model.Machine, error)
	List(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Machine, int64, error)
	ListForFilter(ctx context.Context, ident scope.Identity) ([]model.Machine, error)
	Update(ctx context.Context, m *model.Machine) error
	Delete(ctx context.Context, m *model.Machine) error
}

type machineRepository struct {
	db *gorm.DB
}

// NewMachineRepository returns a new instance of MachineRepository
func NewMachineRepository(db *gorm.DB) MachineRepository {
	return &machineRepository{db: db}
}

func preloadMachine(db *gorm.DB) *gorm.DB {
	return db.
		Preload("TechniqueModel").
		Preload("EngineModel").
		Preload("TransmissionModel").
		Preload("DriveAxleModel").
		Preload("SteeringAxleModel").
		Preload("Client").
		Preload("ServiceCompany")
}

func (r *machineRepository) Create(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *machineRepository) GetByID(ctx context.Context, ident scope.Identity, id uint) (*model.Machine, error) {
	var m model.Machine
	err := preloadMachine(r.db.WithContext(ctx)).
		Scopes(scope.Machines(ident)).
		First(&m, "machines.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetBySerial is the public serial-number search on the dashboard and is
// deliberately unscoped: anyone may check whether a serial number is known.
func (r *machineRepository) GetBySerial(ctx context.Context, serial string) (*model.Machine, error) {
	var m model.Machine
	err := preloadMachine(r.db.WithContext(ctx)).
		First(&m, "machines.serial_number = ?", serial).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *machineRepository) List(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Machine, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Machine{}).
			Scopes(scope.Machines(ident), scope.MachineFilters(params))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var machines []model.Machine
	err := preloadMachine(base()).
		Order("machines.shipment_date DESC").
		Offset(offset).Limit(limit).
		Find(&machines).Error
	if err != nil {
		return nil, 0, err
	}

	return machines, total, nil
}

// ListForFilter returns the visible machines for dropdown option lists,
// in ascending serial number order, unlike the most-recent-first list
// surfaces.
func (r *machineRepository) ListForFilter(ctx context.Context, ident scope.Identity) ([]model.Machine, error) {
	var machines []model.Machine
	err := r.db.WithContext(ctx).Model(&model.Machine{}).
		Scopes(scope.Machines(ident)).
		Order("machines.serial_number ASC").
		Find(&machines).Error
	if err != nil {
		return nil, err
	}
	return machines, nil
}

func (r *machineRepository) Update(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *machineRepository) Delete(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Delete(m).Error
}
