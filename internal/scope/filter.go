package scope

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// parseID returns the numeric value of a raw filter parameter, or 0 when it
// is absent or not a number. A malformed value is deliberately treated as
// "no filter for this field" rather than an error or an always-empty match.
func parseID(raw string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// MachineFilters narrows a machine query by the recognized dropdown
// parameters. Filters are independent equality predicates and AND-combine.
func MachineFilters(params map[string]string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v := parseID(params["technique_model"]); v != 0 {
			db = db.Where("machines.technique_model_id = ?", v)
		}
		if v := parseID(params["engine_model"]); v != 0 {
			db = db.Where("machines.engine_model_id = ?", v)
		}
		if v := parseID(params["transmission_model"]); v != 0 {
			db = db.Where("machines.transmission_model_id = ?", v)
		}
		if v := parseID(params["drive_axle_model"]); v != 0 {
			db = db.Where("machines.drive_axle_model_id = ?", v)
		}
		if v := parseID(params["steering_axle_model"]); v != 0 {
			db = db.Where("machines.steering_axle_model_id = ?", v)
		}
		return db
	}
}

// MaintenanceFilters narrows a maintenance query. car_serial_to matches the
// owning machine's serial number case-insensitively as a substring, so the
// machines table must be joined (repositories always do).
func MaintenanceFilters(params map[string]string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v := parseID(params["service_type"]); v != 0 {
			db = db.Where("maintenances.service_type_id = ?", v)
		}
		if v := strings.TrimSpace(params["car_serial_to"]); v != "" {
			db = db.Where("LOWER(machines.serial_number) LIKE ?", "%"+strings.ToLower(v)+"%")
		}
		if v := parseID(params["service_company_to"]); v != 0 {
			db = db.Where("maintenances.service_company_id = ?", v)
		}
		return db
	}
}

// ComplaintFilters narrows a complaint query.
func ComplaintFilters(params map[string]string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if v := parseID(params["failure_node"]); v != 0 {
			db = db.Where("complaints.failure_node_id = ?", v)
		}
		if v := parseID(params["recovery_method"]); v != 0 {
			db = db.Where("complaints.recovery_method_id = ?", v)
		}
		if v := parseID(params["service_company_complaint"]); v != 0 {
			db = db.Where("complaints.service_company_id = ?", v)
		}
		return db
	}
}
