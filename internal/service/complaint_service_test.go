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

// fakeComplaintRepo is a hand-rolled fake for repository.ComplaintRepository.
type fakeComplaintRepo struct {
	CreateFunc  func(ctx context.Context, c *model.Complaint) error
	GetByIDFunc func(ctx context.Context, ident scope.Identity, id uint) (*model.Complaint, error)
	ListFunc    func(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Complaint, int64, error)
	UpdateFunc  func(ctx context.Context, c *model.Complaint) error
	DeleteFunc  func(ctx context.Context, c *model.Complaint) error
}

func (f *fakeComplaintRepo) Create(ctx context.Context, c *model.Complaint) error {
	if f.CreateFunc == nil {
		return nil
	}
	return f.CreateFunc(ctx, c)
}

func (f *fakeComplaintRepo) GetByID(ctx context.Context, ident scope.Identity, id uint) (*model.Complaint, error) {
	if f.GetByIDFunc == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.GetByIDFunc(ctx, ident, id)
}

func (f *fakeComplaintRepo) List(ctx context.Context, ident scope.Identity, params map[string]string, offset, limit int) ([]model.Complaint, int64, error) {
	if f.ListFunc == nil {
		return nil, 0, nil
	}
	return f.ListFunc(ctx, ident, params, offset, limit)
}

func (f *fakeComplaintRepo) Update(ctx context.Context, c *model.Complaint) error {
	if f.UpdateFunc == nil {
		return nil
	}
	return f.UpdateFunc(ctx, c)
}

func (f *fakeComplaintRepo) Delete(ctx context.Context, c *model.Complaint) error {
	if f.DeleteFunc == nil {
		return nil
	}
	return f.DeleteFunc(ctx, c)
}

func sampleComplaint() *model.Complaint {
	return &model.Complaint{
		ID:                 20,
		MachineID:          1,
		Machine:            *sampleMachine(),
		FailureDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		OperatingHours:     250,
		FailureNodeID:      2,
		FailureNode:        model.FailureNode{ID: 2, Name: "Hydraulics"},
		FailureDescription: "Hose rupture under load",
		RecoveryMethodID:   4,
		RecoveryMethod:     model.RecoveryMethod{ID: 4, Name: "Component replacement"},
		RecoveryDate:       time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Downtime:           4,
		ServiceCompanyID:   7,
		ServiceCompany:     model.User{ID: 7, Name: "FixIt Service", Role: model.RoleService},
	}
}

func validCreateComplaintRequest() CreateComplaintRequest {
	return CreateComplaintRequest{
		MachineID:          1,
		FailureDate:        "2024-03-01",
		OperatingHours:     250,
		FailureNodeID:      2,
		FailureDescription: "Hose rupture under load",
		RecoveryMethodID:   4,
		RecoveryDate:       "2024-03-05",
		ServiceCompanyID:   7,
	}
}

func TestComplaintCreateAuthorization(t *testing.T) {
	tests := []struct {
		name    string
		ident   scope.Identity
		wantErr error
	}{
		{"anonymous", scope.Anonymous(), ErrNotAuthenticated},
		// Clients read complaints but never write them, even for machines
		// they own.
		{"client", clientIdentity(), ErrAccessDenied},
		{"service company", serviceIdentity(), nil},
		{"manager", managerIdentity(), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeComplaintRepo{
				CreateFunc: func(_ context.Context, c *model.Complaint) error {
					c.ID = 20
					return nil
				},
				GetByIDFunc: func(_ context.Context, _ scope.Identity, _ uint) (*model.Complaint, error) {
					return sampleComplaint(), nil
				},
			}
			svc := NewComplaintService(repo, visibleMachineRepo(), nil)

			res, err := svc.Create(context.Background(), tc.ident, validCreateComplaintRequest())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(20), res.ID)
			assert.Equal(t, "Hydraulics", res.FailureNode)
			assert.Equal(t, 4, res.Downtime)
		})
	}
}

func TestComplaintCreateInvisibleMachineIsNotFound(t *testing.T) {
	machines := &fakeMachineRepo{
		GetByIDFunc: func(_ context.Context, _ scope.Identity, _ uint) (*model.Machine, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewComplaintService(&fakeComplaintRepo{}, machines, nil)

	_, err := svc.Create(context.Background(), serviceIdentity(), validCreateComplaintRequest())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestComplaintUpdateForbiddenForClients(t *testing.T) {
	repo := &fakeComplaintRepo{
		GetByIDFunc: func(_ context.Context, _ scope.Identity, _ uint) (*model.Complaint, error) {
			return sampleComplaint(), nil
		},
	}
	svc := NewComplaintService(repo, visibleMachineRepo(), nil)

	desc := "updated"
	_, err := svc.Update(context.Background(), clientIdentity(), 20, UpdateComplaintRequest{FailureDescription: &desc})
	require.ErrorIs(t, err, ErrAccessDenied)

	err = svc.Delete(context.Background(), clientIdentity(), 20)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestComplaintUpdateByServiceCompany(t *testing.T) {
	var saved *model.Complaint
	repo := &fakeComplaintRepo{
		GetByIDFunc: func(_ context.Context, _ scope.Identity, _ uint) (*model.Complaint, error) {
			return sampleComplaint(), nil
		},
		UpdateFunc: func(_ context.Context, c *model.Complaint) error {
			saved = c
			return nil
		},
	}
	svc := NewComplaintService(repo, visibleMachineRepo(), nil)

	spareParts := "hose 31-00101, clamps"
	res, err := svc.Update(context.Background(), serviceIdentity(), 20, UpdateComplaintRequest{SpareParts: &spareParts})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, spareParts, saved.SpareParts)
	assert.Equal(t, spareParts, res.SpareParts)
}

func TestComplaintGetIsReadableByClient(t *testing.T) {
	repo := &fakeComplaintRepo{
		GetByIDFunc: func(_ context.Context, _ scope.Identity, _ uint) (*model.Complaint, error) {
			return sampleComplaint(), nil
		},
	}
	svc := NewComplaintService(repo, visibleMachineRepo(), nil)

	res, err := svc.Get(context.Background(), clientIdentity(), 20)
	require.NoError(t, err)
	assert.Equal(t, "ZX-1011", res.MachineSerial)
	assert.Equal(t, "2024-03-01", res.FailureDate)
	assert.Equal(t, "2024-03-05", res.RecoveryDate)
	assert.Equal(t, 4, res.Downtime)
}
