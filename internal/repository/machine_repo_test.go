package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fleetcare/internal/model"
	"fleetcare/internal/scope"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestListForFilterOrdersBySerialNumber(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMachineRepository(db)

	// Dropdown option lists are sorted by serial number, not by the
	// most-recent-first shipment date used on list surfaces.
	mock.ExpectQuery(`SELECT \* FROM "machines" ORDER BY machines\.serial_number ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "serial_number"}).
			AddRow(2, "AX-0002").
			AddRow(1, "ZX-1011"))

	manager := scope.Identity{ID: 1, Role: model.RoleManager, Authenticated: true}
	machines, err := repo.ListForFilter(context.Background(), manager)
	require.NoError(t, err)
	require.Len(t, machines, 2)
	assert.Equal(t, "AX-0002", machines[0].SerialNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForFilterScopesToClient(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewMachineRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "machines" WHERE machines\.client_id = \$1 ORDER BY machines\.serial_number ASC`).
		WithArgs(uint(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "serial_number"}).
			AddRow(1, "ZX-1011"))

	client := scope.Identity{ID: 5, Role: model.RoleClient, Authenticated: true}
	machines, err := repo.ListForFilter(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, machines, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
