package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fleetcare/internal/model"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Auto-migrate core models. The maintenance composite unique index is
	// created here and backs the duplicate pre-check in the service layer.
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.TechniqueModel{},
		&model.EngineModel{},
		&model.TransmissionModel{},
		&model.DriveAxleModel{},
		&model.SteeringAxleModel{},
		&model.ServiceType{},
		&model.FailureNode{},
		&model.RecoveryMethod{},
		&model.Machine{},
		&model.Maintenance{},
		&model.Complaint{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
