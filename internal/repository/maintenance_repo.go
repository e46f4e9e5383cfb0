package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleetcare/internal/model"
	"fleetcare/internal/scope"
)

const maintenanceMachineJoin = "JOIN machines ON machines.id = maintenances.machine_id"

// MaintenanceRepository defines data access for Maintenance entities.
// Ownership checks delegate to the owning machine, so every scoped query
// joins the machines table.
type MaintenanceRepository interface {
	Create(ctx context.Context, m *model.Maintenance) error
	GetByID(ctx context.Context, ident scope.Identity, id uint) (*model.Maintenance, error)
	List(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Maintenance, int64, error)
	ExistsDuplicate(ctx context.Context, machineID uint, eventDate time.Time, serviceTypeID, excludeID uint) (bool, error)
	Update(ctx context.Context, m *model.Maintenance) error
	Delete(ctx context.Context, m *model.Maintenance) error
}

type maintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository returns a new instance of MaintenanceRepository
func NewMaintenanceRepository(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func preloadMaintenance(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Machine").
		Preload("ServiceType").
		Preload("ServiceCompany")
}

func (r *maintenanceRepository) Create(ctx context.Context, m *model.Maintenance) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *maintenanceRepository) GetByID(ctx context.Context, ident scope.Identity, id uint) (*model.Maintenance, error) {
	var m model.Maintenance
	err := preloadMaintenance(r.db.WithContext(ctx).Model(&model.Maintenance{})).
		Joins(maintenanceMachineJoin).
		Scopes(scope.Maintenances(ident)).
		First(&m, "maintenances.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *maintenanceRepository) List(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Maintenance, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Maintenance{}).
			Joins(maintenanceMachineJoin).
			Scopes(scope.Maintenances(ident), scope.MaintenanceFilters(params))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Maintenance
	err := preloadMaintenance(base()).
		Order("maintenances.event_date DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// ExistsDuplicate is the advisory pre-check for the (machine, date, service
// type) uniqueness rule. The composite unique index remains the final
// arbiter under concurrent writers.
func (r *maintenanceRepository) ExistsDuplicate(ctx context.Context, machineID uint, eventDate time.Time, serviceTypeID, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Maintenance{}).
		Where("machine_id = ? AND event_date = ? AND service_type_id = ?", machineID, eventDate, serviceTypeID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, m *model.Maintenance) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *maintenanceRepository) Delete(ctx context.Context, m *model.Maintenance) error {
	return r.db.WithContext(ctx).Delete(m).Error
}
