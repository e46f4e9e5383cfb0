// Package scope implements the row-level visibility rules and the dynamic
// query filters applied on top of them. Every read and mutation fetch for
// machines, maintenances and complaints goes through these scopes, so a row
// outside the caller's scope surfaces as gorm.ErrRecordNotFound everywhere.
package scope

import (
	"gorm.io/gorm"

	"fleetcare/internal/model"
)

// Identity is the actor a request runs as. The zero value is anonymous.
type Identity struct {
	ID            uint
	Role          string
	Elevated      bool
	Authenticated bool
}

// Anonymous returns the unauthenticated identity.
func Anonymous() Identity { return Identity{} }

// FromUser builds the request identity for a stored user.
func FromUser(u *model.User) Identity {
	return Identity{ID: u.ID, Role: u.Role, Elevated: u.Elevated, Authenticated: true}
}

func (id Identity) IsClient() bool  { return id.Role == model.RoleClient }
func (id Identity) IsService() bool { return id.Role == model.RoleService }
func (id Identity) IsManager() bool { return id.Role == model.RoleManager }

// Unrestricted reports whether the identity bypasses ownership filters.
// Managers and elevated (superuser) identities see everything; the two are
// independent axes and either one is sufficient.
func (id Identity) Unrestricted() bool {
	return id.Authenticated && (id.Elevated || id.IsManager())
}

// none makes any query match nothing. Denials are silent: an empty result,
// never an error.
func none(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

// Machines restricts a machine query to the rows the identity may see.
func Machines(id Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case !id.Authenticated:
			return none(db)
		case id.Unrestricted():
			return db
		case id.IsService():
			return db.Where("machines.service_company_id = ?", id.ID)
		case id.IsClient():
			return db.Where("machines.client_id = ?", id.ID)
		default:
			return none(db)
		}
	}
}

// Maintenances restricts a maintenance query to rows whose owning machine
// the identity may see. Ownership is never denormalized onto the child row;
// the check always goes through the machine. The caller must have joined
// the machines table (repositories always do).
func Maintenances(id Identity) func(*gorm.DB) *gorm.DB {
	return ownedViaMachine(id)
}

// Complaints restricts a complaint query the same way as Maintenances.
func Complaints(id Identity) func(*gorm.DB) *gorm.DB {
	return ownedViaMachine(id)
}

func ownedViaMachine(id Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case !id.Authenticated:
			return none(db)
		case id.Unrestricted():
			return db
		case id.IsService():
			return db.Where("machines.service_company_id = ?", id.ID)
		case id.IsClient():
			return db.Where("machines.client_id = ?", id.ID)
		default:
			return none(db)
		}
	}
}
