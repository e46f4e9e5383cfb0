package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleetcare/internal/model"
	"fleetcare/internal/scope"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ServiceCompaniesFor(ctx context.Context, ident scope.Identity) ([]model.User, error)
	MaintenancePerformersFor(ctx context.Context, ident scope.Identity) ([]model.User, error)

	CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ServiceCompaniesFor returns the service-company identities relevant to the
// viewer's filter dropdowns: all of them for unrestricted identities, the
// company itself for a service identity, and for a client the companies
// servicing the client's machines.
func (r *userRepository) ServiceCompaniesFor(ctx context.Context, ident scope.Identity) ([]model.User, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Order("name ASC")

	switch {
	case !ident.Authenticated:
		return []model.User{}, nil
	case ident.Unrestricted():
		q = q.Where("role = ?", model.RoleService)
	case ident.IsService():
		q = q.Where("id = ?", ident.ID)
	case ident.IsClient():
		sub := r.db.Model(&model.Machine{}).
			Select("service_company_id").
			Where("client_id = ?", ident.ID)
		q = q.Where("id IN (?)", sub)
	default:
		return []model.User{}, nil
	}

	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// MaintenancePerformersFor widens ServiceCompaniesFor for the maintenance
// form: a client may record self-performed maintenance, so the client
// identity itself is included alongside the companies of its machines.
func (r *userRepository) MaintenancePerformersFor(ctx context.Context, ident scope.Identity) ([]model.User, error) {
	if !ident.Authenticated {
		return []model.User{}, nil
	}
	if !ident.IsClient() || ident.Unrestricted() {
		return r.ServiceCompaniesFor(ctx, ident)
	}

	sub := r.db.Model(&model.Machine{}).
		Select("service_company_id").
		Where("client_id = ?", ident.ID)

	var users []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id IN (?) OR id = ?", sub, ident.ID).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *userRepository) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	err := r.db.WithContext(ctx).Preload("User").
		First(&rt, "token = ? AND expires_at > ?", token, time.Now()).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *userRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.RefreshToken{}).Error
}
