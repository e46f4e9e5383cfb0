package repository

import (
	"context"

	"gorm.io/gorm"

	"fleetcare/internal/model"
)

// Catalogs bundles the eight reference lists the filter dropdowns and forms
// are populated from.
type Catalogs struct {
	TechniqueModels    []model.TechniqueModel    `json:"technique_models"`
	EngineModels       []model.EngineModel       `json:"engine_models"`
	TransmissionModels []model.TransmissionModel `json:"transmission_models"`
	DriveAxleModels    []model.DriveAxleModel    `json:"drive_axle_models"`
	SteeringAxleModels []model.SteeringAxleModel `json:"steering_axle_models"`
	ServiceTypes       []model.ServiceType       `json:"service_types"`
	FailureNodes       []model.FailureNode       `json:"failure_nodes"`
	RecoveryMethods    []model.RecoveryMethod    `json:"recovery_methods"`
}

// CatalogRepository reads the immutable reference data. There is no
// ownership and no filtering on catalogs.
type CatalogRepository interface {
	All(ctx context.Context) (*Catalogs, error)
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository returns a new instance of CatalogRepository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) All(ctx context.Context) (*Catalogs, error) {
	var c Catalogs
	db := r.db.WithContext(ctx)

	for _, dest := range []interface{}{
		&c.TechniqueModels,
		&c.EngineModels,
		&c.TransmissionModels,
		&c.DriveAxleModels,
		&c.SteeringAxleModels,
		&c.ServiceTypes,
		&c.FailureNodes,
		&c.RecoveryMethods,
	} {
		if err := db.Order("name ASC").Find(dest).Error; err != nil {
			return nil, err
		}
	}

	return &c, nil
}
