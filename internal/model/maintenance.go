package model

import (
	"time"
)

// Maintenance is a scheduled service event for a machine. The composite
// unique index is the final arbiter of the "one event per machine, date and
// service type" rule; the service layer pre-checks it only to return a
// readable conflict message.
type Maintenance struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	MachineID uint    `gorm:"not null;uniqueIndex:idx_maintenance_event,priority:1" json:"machine_id"`
	Machine   Machine `gorm:"foreignKey:MachineID;constraint:OnDelete:CASCADE" json:"machine"`

	ServiceTypeID uint        `gorm:"not null;uniqueIndex:idx_maintenance_event,priority:3" json:"service_type_id"`
	ServiceType   ServiceType `gorm:"foreignKey:ServiceTypeID" json:"service_type"`
	EventDate     time.Time   `gorm:"type:date;not null;uniqueIndex:idx_maintenance_event,priority:2" json:"event_date"`

	OperatingHours int       `gorm:"not null" json:"operating_hours"`
	OrderNumber    string    `gorm:"type:varchar(255)" json:"order_number"`
	OrderDate      time.Time `gorm:"type:date" json:"order_date"`

	// Organization that performed the work. For self-service this is the
	// client itself, so no role constraint is enforced here.
	ServiceCompanyID uint `gorm:"not null" json:"service_company_id"`
	ServiceCompany   User `gorm:"foreignKey:ServiceCompanyID" json:"service_company"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
