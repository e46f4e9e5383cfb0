package repository

import (
	"context"

	"gorm.io/gorm"

	"fleetcare/internal/model"
	"fleetcare/internal/scope"
)

const complaintMachineJoin = "JOIN machines ON machines.id = complaints.machine_id"

// ComplaintRepository defines data access for Complaint entities. Like
// maintenances, ownership checks delegate to the owning machine.
type ComplaintRepository interface {
	Create(ctx context.Context, c *model.Complaint) error
	GetByID(ctx context.Context, ident scope.Identity, id uint) (*model.Complaint, error)
	List(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Complaint, int64, error)
	Update(ctx context.Context, c *model.Complaint) error
	Delete(ctx context.Context, c *model.Complaint) error
}

type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository returns a new instance of ComplaintRepository
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func preloadComplaint(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Machine").
		Preload("FailureNode").
		Preload("RecoveryMethod").
		Preload("ServiceCompany")
}

func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *complaintRepository) GetByID(ctx context.Context, ident scope.Identity, id uint) (*model.Complaint, error) {
	var c model.Complaint
	err := preloadComplaint(r.db.WithContext(ctx).Model(&model.Complaint{})).
		Joins(complaintMachineJoin).
		Scopes(scope.Complaints(ident)).
		First(&c, "complaints.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *complaintRepository) List(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Complaint, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Complaint{}).
			Joins(complaintMachineJoin).
			Scopes(scope.Complaints(ident), scope.ComplaintFilters(params))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Complaint
	err := preloadComplaint(base()).
		Order("complaints.failure_date DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *complaintRepository) Update(ctx context.Context, c *model.Complaint) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *complaintRepository) Delete(ctx context.Context, c *model.Complaint) error {
	return r.db.WithContext(ctx).Delete(c).Error
}
