package model

import (
	"time"

	"gorm.io/gorm"
)

// Complaint is a failure/warranty claim for a machine. Downtime is derived
// from the failure and recovery dates and is never accepted from callers.
type Complaint struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	MachineID uint    `gorm:"not null;index" json:"machine_id"`
	Machine   Machine `gorm:"foreignKey:MachineID;constraint:OnDelete:CASCADE" json:"machine"`

	FailureDate    time.Time `gorm:"type:date;not null" json:"failure_date"`
	OperatingHours int       `gorm:"not null" json:"operating_hours"`

	FailureNodeID      uint           `gorm:"not null" json:"failure_node_id"`
	FailureNode        FailureNode    `gorm:"foreignKey:FailureNodeID" json:"failure_node"`
	FailureDescription string         `gorm:"type:text;not null" json:"failure_description"`
	RecoveryMethodID   uint           `gorm:"not null" json:"recovery_method_id"`
	RecoveryMethod     RecoveryMethod `gorm:"foreignKey:RecoveryMethodID" json:"recovery_method"`
	SpareParts         string         `gorm:"type:text" json:"spare_parts"`
	RecoveryDate       time.Time      `gorm:"type:date" json:"recovery_date"`

	// Whole days between failure and recovery. Recomputed on every write.
	Downtime int `gorm:"not null;default:0" json:"downtime"`

	ServiceCompanyID uint `gorm:"not null" json:"service_company_id"`
	ServiceCompany   User `gorm:"foreignKey:ServiceCompanyID" json:"service_company"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeSave recomputes the downtime whenever both dates are present.
func (c *Complaint) BeforeSave(tx *gorm.DB) error {
	if !c.FailureDate.IsZero() && !c.RecoveryDate.IsZero() {
		c.Downtime = int(c.RecoveryDate.Sub(c.FailureDate).Hours() / 24)
	}
	return nil
}
