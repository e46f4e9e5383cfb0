package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleetcare/internal/middleware"
	"fleetcare/internal/model"
	"fleetcare/internal/scope"
)

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin(t *testing.T) {
	user := &model.User{
		ID:       5,
		Username: "acme",
		Email:    "ops@acme.example",
		Role:     model.RoleClient,
	}

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		user.Password = hashedPassword(t, "s3cret!")
		var stored *model.RefreshToken
		repo := &fakeUserRepo{
			GetByEmailFunc: func(_ context.Context, email string) (*model.User, error) {
				assert.Equal(t, "ops@acme.example", email)
				return user, nil
			},
			CreateRefreshTokenFunc: func(_ context.Context, rt *model.RefreshToken) error {
				stored = rt
				return nil
			},
		}
		svc := NewAuthService(repo)

		res, err := svc.Login(context.Background(), LoginRequest{Email: "ops@acme.example", Password: "s3cret!"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.NotEmpty(t, res.RefreshToken)
		require.NotNil(t, stored)
		assert.Equal(t, user.ID, stored.UserID)
		assert.Equal(t, res.RefreshToken, stored.Token)
	})

	t.Run("issued token verifies against the middleware secret", func(t *testing.T) {
		user.Password = hashedPassword(t, "s3cret!")
		repo := &fakeUserRepo{
			GetByEmailFunc: func(_ context.Context, _ string) (*model.User, error) {
				return user, nil
			},
		}
		svc := NewAuthService(repo)

		res, err := svc.Login(context.Background(), LoginRequest{Email: "ops@acme.example", Password: "s3cret!"})
		require.NoError(t, err)

		parsed, err := jwt.Parse(res.Token, func(t *jwt.Token) (interface{}, error) {
			return middleware.GetJWTSecret(), nil
		})
		require.NoError(t, err)
		require.True(t, parsed.Valid)

		claims, ok := parsed.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, float64(5), claims["sub"])
		assert.Equal(t, model.RoleClient, claims["role"])
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		user.Password = hashedPassword(t, "s3cret!")
		repo := &fakeUserRepo{
			GetByEmailFunc: func(_ context.Context, _ string) (*model.User, error) {
				return user, nil
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), LoginRequest{Email: "ops@acme.example", Password: "wrong"})
		require.EqualError(t, err, "invalid email or password")
	})

	t.Run("unknown email gets the same error as a wrong password", func(t *testing.T) {
		svc := NewAuthService(&fakeUserRepo{})

		_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "s3cret!"})
		require.EqualError(t, err, "invalid email or password")
	})
}

func TestRefreshRotatesToken(t *testing.T) {
	deleted := ""
	repo := &fakeUserRepo{
		GetRefreshTokenFunc: func(_ context.Context, token string) (*model.RefreshToken, error) {
			return &model.RefreshToken{
				UserID:    5,
				Token:     token,
				ExpiresAt: time.Now().Add(time.Hour),
				User:      model.User{ID: 5, Username: "acme", Role: model.RoleClient},
			}, nil
		},
		DeleteRefreshTokenFunc: func(_ context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	svc := NewAuthService(repo)

	res, err := svc.Refresh(context.Background(), "old-token")
	require.NoError(t, err)
	assert.Equal(t, "old-token", deleted)
	assert.NotEqual(t, "old-token", res.RefreshToken)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{})

	_, err := svc.Refresh(context.Background(), "gone")
	require.EqualError(t, err, "invalid or expired refresh token")
}

func TestCreateUser(t *testing.T) {
	req := CreateUserRequest{
		Username: "fixit",
		Email:    "desk@fixit.example",
		Name:     "FixIt Service",
		Password: "s3cret!",
		Role:     model.RoleService,
	}

	t.Run("requires an unrestricted identity", func(t *testing.T) {
		svc := NewAuthService(&fakeUserRepo{})

		_, err := svc.CreateUser(context.Background(), scope.Anonymous(), req)
		require.ErrorIs(t, err, ErrNotAuthenticated)

		_, err = svc.CreateUser(context.Background(), clientIdentity(), req)
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		svc := NewAuthService(&fakeUserRepo{})

		bad := req
		bad.Role = "admin"
		_, err := svc.CreateUser(context.Background(), managerIdentity(), bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid role")
	})

	t.Run("stores a hashed password", func(t *testing.T) {
		var created *model.User
		repo := &fakeUserRepo{
			GetByUsernameFunc: func(_ context.Context, _ string) (*model.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
			GetByEmailFunc: func(_ context.Context, _ string) (*model.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
			CreateFunc: func(_ context.Context, u *model.User) error {
				u.ID = 11
				created = u
				return nil
			},
		}
		svc := NewAuthService(repo)

		res, err := svc.CreateUser(context.Background(), managerIdentity(), req)
		require.NoError(t, err)
		assert.Equal(t, uint(11), res.ID)
		require.NotNil(t, created)
		assert.NotEqual(t, "s3cret!", created.Password)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret!")))
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		repo := &fakeUserRepo{
			GetByUsernameFunc: func(_ context.Context, _ string) (*model.User, error) {
				return &model.User{ID: 2, Username: "fixit"}, nil
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.CreateUser(context.Background(), managerIdentity(), req)
		require.EqualError(t, err, "username already exists")
	})
}
