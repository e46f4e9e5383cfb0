package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fleetcare/internal/model"
	"fleetcare/internal/scope"
)

// fakeMachineRepo is a hand-rolled fake for repository.MachineRepository.
type fakeMachineRepo struct {
	CreateFunc        func(ctx context.Context, m *model.Machine) error
	GetByIDFunc       func(ctx context.Context, ident scope.Identity, id uint) (*model.Machine, error)
	GetBySerialFunc   func(ctx context.Context, serial string) (*model.Machine, error)
	ListFunc          func(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Machine, int64, error)
	ListForFilterFunc func(ctx context.Context, ident scope.Identity) ([]model.Machine, error)
	UpdateFunc        func(ctx context.Context, m *model.Machine) error
	DeleteFunc        func(ctx context.Context, m *model.Machine) error
}

func (f *fakeMachineRepo) Create(ctx context.Context, m *model.Machine) error {
	if f.CreateFunc == nil {
		return nil
	}
	return f.CreateFunc(ctx, m)
}

func (f *fakeMachineRepo) GetByID(ctx context.Context, ident scope.Identity, id uint) (*model.Machine, error) {
	if f.GetByIDFunc == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.GetByIDFunc(ctx, ident, id)
}

func (f *fakeMachineRepo) GetBySerial(ctx context.Context, serial string) (*model.Machine, error) {
	if f.GetBySerialFunc == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.GetBySerialFunc(ctx, serial)
}

func (f *fakeMachineRepo) List(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Machine, int64, error) {
	if f.ListFunc == nil {
		return nil, 0, nil
	}
	return f.ListFunc(ctx, ident, params, offset, limit)
}

func (f *fakeMachineRepo) ListForFilter(ctx context.Context, ident scope.Identity) ([]model.Machine, error) {
	if f.ListForFilterFunc == nil {
		return nil, nil
	}
	return f.ListForFilterFunc(ctx, ident)
}

func (f *fakeMachineRepo) Update(ctx context.Context, m *model.Machine) error {
	if f.UpdateFunc == nil {
		return nil
	}
	return f.UpdateFunc(ctx, m)
}

func (f *fakeMachineRepo) Delete(ctx context.Context, m *model.Machine) error {
	if f.DeleteFunc == nil {
		return nil
	}
	return f.DeleteFunc(ctx, m)
}

func clientIdentity() scope.Identity {
	return scope.Identity{ID: 5, Role: model.RoleClient, Authenticated: true}
}

func serviceIdentity() scope.Identity {
	return scope.Identity{ID: 7, Role: model.RoleService, Authenticated: true}
}

func managerIdentity() scope.Identity {
	return scope.Identity{ID: 9, Role: model.RoleManager, Authenticated: true}
}

func sampleMachine() *model.Machine {
	return &model.Machine{
		ID:                  1,
		SerialNumber:        "ZX-1011",
		TechniqueModelID:    1,
		TechniqueModel:      model.TechniqueModel{ID: 1, Name: "PD-1,5"},
		EngineModelID:       2,
		EngineModel:         model.EngineModel{ID: 2, Name: "Kubota D1803"},
		TransmissionModelID: 3,
		TransmissionModel:   model.TransmissionModel{ID: 3, Name: "10VA-00105"},
		DriveAxleModelID:    4,
		DriveAxleModel:      model.DriveAxleModel{ID: 4, Name: "20VA-00101"},
		SteeringAxleModelID: 5,
		SteeringAxleModel:   model.SteeringAxleModel{ID: 5, Name: "VS20-00001"},
		ShipmentDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ClientID:            5,
		Client:              model.User{ID: 5, Name: "Acme Logistics", Role: model.RoleClient},
		ServiceCompanyID:    7,
		ServiceCompany:      model.User{ID: 7, Name: "FixIt Service", Role: model.RoleService},
	}
}

func validCreateMachineRequest() CreateMachineRequest {
	return CreateMachineRequest{
		SerialNumber:        "ZX-1011",
		TechniqueModelID:    1,
		EngineModelID:       2,
		TransmissionModelID: 3,
		DriveAxleModelID:    4,
		SteeringAxleModelID: 5,
		ShipmentDate:        "2024-03-01",
		ClientID:            5,
		ServiceCompanyID:    7,
	}
}

func TestMachineCreateAuthorization(t *testing.T) {
	tests := []struct {
		name    string
		ident   scope.Identity
		wantErr error
	}{
		{"anonymous", scope.Anonymous(), ErrNotAuthenticated},
		{"client", clientIdentity(), ErrAccessDenied},
		{"service company", serviceIdentity(), ErrAccessDenied},
		{"manager", managerIdentity(), nil},
		{"elevated client", scope.Identity{ID: 5, Role: model.RoleClient, Elevated: true, Authenticated: true}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeMachineRepo{
				CreateFunc: func(_ context.Context, m *model.Machine) error {
					m.ID = 42
					return nil
				},
			}
			svc := NewMachineService(repo, nil)

			res, err := svc.Create(context.Background(), tc.ident, validCreateMachineRequest())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(42), res.ID)
			assert.Equal(t, "2024-03-01", res.ShipmentDate)
		})
	}
}

func TestMachineCreateRejectsBadDate(t *testing.T) {
	svc := NewMachineService(&fakeMachineRepo{}, nil)

	req := validCreateMachineRequest()
	req.ShipmentDate = "01.03.2024"

	_, err := svc.Create(context.Background(), managerIdentity(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shipment_date")
}

func TestMachineGetMapsRecordNotFound(t *testing.T) {
	repo := &fakeMachineRepo{
		GetByIDFunc: func(_ context.Context, _ scope.Identity, _ uint) (*model.Machine, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewMachineService(repo, nil)

	_, err := svc.Get(context.Background(), clientIdentity(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMachineGetBuildsResponse(t *testing.T) {
	repo := &fakeMachineRepo{
		GetByIDFunc: func(_ context.Context, _ scope.Identity, _ uint) (*model.Machine, error) {
			return sampleMachine(), nil
		},
	}
	svc := NewMachineService(repo, nil)

	res, err := svc.Get(context.Background(), clientIdentity(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ZX-1011", res.SerialNumber)
	assert.Equal(t, "PD-1,5", res.TechniqueModel)
	assert.Equal(t, "Acme Logistics", res.Client)
	assert.Equal(t, "FixIt Service", res.ServiceCompany)
	assert.Equal(t, "2024-03-01", res.ShipmentDate)
}

func TestMachineDeleteRequiresUnrestricted(t *testing.T) {
	repo := &fakeMachineRepo{
		GetByIDFunc: func(_ context.Context, _ scope.Identity, _ uint) (*model.Machine, error) {
			return sampleMachine(), nil
		},
	}
	svc := NewMachineService(repo, nil)

	err := svc.Delete(context.Background(), serviceIdentity(), 1)
	require.ErrorIs(t, err, ErrAccessDenied)

	err = svc.Delete(context.Background(), managerIdentity(), 1)
	require.NoError(t, err)
}

func TestSearchBySerial(t *testing.T) {
	t.Run("unknown serial reports a message, not an error", func(t *testing.T) {
		svc := NewMachineService(&fakeMachineRepo{}, nil)

		res, err := svc.SearchBySerial(context.Background(), "nope")
		require.NoError(t, err)
		assert.False(t, res.Found)
		assert.Nil(t, res.Machine)
		assert.Equal(t, "No machine with this serial number is known to the system", res.Message)
	})

	t.Run("known serial returns the machine", func(t *testing.T) {
		repo := &fakeMachineRepo{
			GetBySerialFunc: func(_ context.Context, serial string) (*model.Machine, error) {
				assert.Equal(t, "ZX-1011", serial)
				return sampleMachine(), nil
			},
		}
		svc := NewMachineService(repo, nil)

		res, err := svc.SearchBySerial(context.Background(), "ZX-1011")
		require.NoError(t, err)
		assert.True(t, res.Found)
		require.NotNil(t, res.Machine)
		assert.Equal(t, "ZX-1011", res.Machine.SerialNumber)
	})
}
