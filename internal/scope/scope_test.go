package scope

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fleetcare/internal/model"
)

// newDryRunDB builds a gorm handle over a mock connection. Queries are never
// executed; tests assert on the generated SQL only.
func newDryRunDB(t *testing.T) *gorm.DB {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)

	return db.Session(&gorm.Session{DryRun: true})
}

const machineJoin = "JOIN machines ON machines.id = maintenances.machine_id"

func machineQuery(db *gorm.DB, id Identity) *gorm.DB {
	return db.Model(&model.Machine{}).Scopes(Machines(id)).Find(&[]model.Machine{})
}

func maintenanceQuery(db *gorm.DB, id Identity) *gorm.DB {
	return db.Model(&model.Maintenance{}).Joins(machineJoin).
		Scopes(Maintenances(id)).Find(&[]model.Maintenance{})
}

func TestMachineVisibility(t *testing.T) {
	db := newDryRunDB(t)

	testCases := []struct {
		name        string
		identity    Identity
		wantClause  string
		wantOwnerID any
		wantEmpty   bool
		wantAllRows bool
	}{
		{
			name:        "client sees only machines where they are the client",
			identity:    Identity{ID: 5, Role: model.RoleClient, Authenticated: true},
			wantClause:  "machines.client_id = $1",
			wantOwnerID: uint(5),
		},
		{
			name:        "service company sees only machines it services",
			identity:    Identity{ID: 7, Role: model.RoleService, Authenticated: true},
			wantClause:  "machines.service_company_id = $1",
			wantOwnerID: uint(7),
		},
		{
			name:        "manager sees all machines",
			identity:    Identity{ID: 2, Role: model.RoleManager, Authenticated: true},
			wantAllRows: true,
		},
		{
			name:        "elevated flag bypasses ownership regardless of role",
			identity:    Identity{ID: 9, Role: model.RoleClient, Elevated: true, Authenticated: true},
			wantAllRows: true,
		},
		{
			name:      "anonymous gets an empty set, not an error",
			identity:  Anonymous(),
			wantEmpty: true,
		},
		{
			name:      "unknown role fails closed",
			identity:  Identity{ID: 3, Role: "auditor", Authenticated: true},
			wantEmpty: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tx := machineQuery(db, tc.identity)
			require.NoError(t, tx.Error)
			sql := tx.Statement.SQL.String()

			switch {
			case tc.wantEmpty:
				assert.Contains(t, sql, "1 = 0")
			case tc.wantAllRows:
				assert.NotContains(t, sql, "client_id")
				assert.NotContains(t, sql, "service_company_id")
				assert.NotContains(t, sql, "1 = 0")
			default:
				assert.Contains(t, sql, tc.wantClause)
				require.Len(t, tx.Statement.Vars, 1)
				assert.Equal(t, tc.wantOwnerID, tx.Statement.Vars[0])
			}
		})
	}
}

// Maintenance and complaint visibility must equal the visibility of the
// owning machine: the restriction is expressed against the joined machines
// table, never against fields on the child row.
func TestChildVisibilityDelegatesToMachine(t *testing.T) {
	db := newDryRunDB(t)

	client := Identity{ID: 5, Role: model.RoleClient, Authenticated: true}
	tx := maintenanceQuery(db, client)
	require.NoError(t, tx.Error)
	sql := tx.Statement.SQL.String()
	assert.Contains(t, sql, machineJoin)
	assert.Contains(t, sql, "machines.client_id = $1")
	assert.Equal(t, []interface{}{uint(5)}, tx.Statement.Vars)

	svc := Identity{ID: 7, Role: model.RoleService, Authenticated: true}
	tx = db.Model(&model.Complaint{}).
		Joins("JOIN machines ON machines.id = complaints.machine_id").
		Scopes(Complaints(svc)).Find(&[]model.Complaint{})
	require.NoError(t, tx.Error)
	assert.Contains(t, tx.Statement.SQL.String(), "machines.service_company_id = $1")

	anon := maintenanceQuery(db, Anonymous())
	assert.Contains(t, anon.Statement.SQL.String(), "1 = 0")
}

func TestUnrestricted(t *testing.T) {
	assert.True(t, Identity{Role: model.RoleManager, Authenticated: true}.Unrestricted())
	assert.True(t, Identity{Role: model.RoleClient, Elevated: true, Authenticated: true}.Unrestricted())
	assert.False(t, Identity{Role: model.RoleClient, Authenticated: true}.Unrestricted())
	// an elevated flag without authentication carries no weight
	assert.False(t, Identity{Elevated: true}.Unrestricted())
}
