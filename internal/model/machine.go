package model

import (
	"time"
)

// Machine is an equipment unit and the root of the ownership graph: its
// client and service company decide who may see the machine and every
// maintenance/complaint row hanging off it.
type Machine struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SerialNumber string `gorm:"type:varchar(255);uniqueIndex;not null" json:"serial_number"`

	TechniqueModelID    uint              `gorm:"not null" json:"technique_model_id"`
	TechniqueModel      TechniqueModel    `gorm:"foreignKey:TechniqueModelID" json:"technique_model"`
	EngineModelID       uint              `gorm:"not null" json:"engine_model_id"`
	EngineModel         EngineModel       `gorm:"foreignKey:EngineModelID" json:"engine_model"`
	EngineSerial        string            `gorm:"type:varchar(255)" json:"engine_serial"`
	TransmissionModelID uint              `gorm:"not null" json:"transmission_model_id"`
	TransmissionModel   TransmissionModel `gorm:"foreignKey:TransmissionModelID" json:"transmission_model"`
	TransmissionSerial  string            `gorm:"type:varchar(255)" json:"transmission_serial"`
	DriveAxleModelID    uint              `gorm:"not null" json:"drive_axle_model_id"`
	DriveAxleModel      DriveAxleModel    `gorm:"foreignKey:DriveAxleModelID" json:"drive_axle_model"`
	DriveAxleSerial     string            `gorm:"type:varchar(255)" json:"drive_axle_serial"`
	SteeringAxleModelID uint              `gorm:"not null" json:"steering_axle_model_id"`
	SteeringAxleModel   SteeringAxleModel `gorm:"foreignKey:SteeringAxleModelID" json:"steering_axle_model"`
	SteeringAxleSerial  string            `gorm:"type:varchar(255)" json:"steering_axle_serial"`

	SupplyContract  string    `gorm:"type:varchar(255)" json:"supply_contract"`
	ShipmentDate    time.Time `gorm:"type:date;not null" json:"shipment_date"`
	Consignee       string    `gorm:"type:varchar(255)" json:"consignee"`
	DeliveryAddress string    `gorm:"type:varchar(255)" json:"delivery_address"`
	Equipment       string    `gorm:"type:text" json:"equipment"` // optional extras

	ClientID         uint `gorm:"not null;index" json:"client_id"`
	Client           User `gorm:"foreignKey:ClientID" json:"client"`
	ServiceCompanyID uint `gorm:"not null;index" json:"service_company_id"`
	ServiceCompany   User `gorm:"foreignKey:ServiceCompanyID" json:"service_company"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
