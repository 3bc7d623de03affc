package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArfiyaHashmi/Task-Management-System/models"
	"github.com/ArfiyaHashmi/Task-Management-System/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	return NewUserService(repositories.NewInMemoryUserRepo())
}

func TestRegisterAndLogin(t *testing.T) {
	service := newUserService(t)
	ctx := context.Background()

	user, token, err := service.RegisterUser(ctx, models.User{
		Name:     "Carla",
		Email:    "carla@example.com",
		Password: "secret1",
		Role:     models.RoleClient,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.Password)

	logged, token, err := service.LoginUser(ctx, "carla@example.com", "secret1", models.RoleClient)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.Password)
}

func TestLogin_RoleIsPartOfTheLookupKey(t *testing.T) {
	service := newUserService(t)
	ctx := context.Background()

	_, _, err := service.RegisterUser(ctx, models.User{
		Name:     "Carla",
		Email:    "carla@example.com",
		Password: "secret1",
		Role:     models.RoleClient,
	})
	require.NoError(t, err)

	// Same email, same password, wrong role: must fail as invalid
	// credentials, not as a missing user.
	_, _, err = service.LoginUser(ctx, "carla@example.com", "secret1", models.RoleManager)
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLogin_WrongPassword(t *testing.T) {
	service := newUserService(t)
	ctx := context.Background()

	_, _, err := service.RegisterUser(ctx, models.User{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "secret1",
		Role:     models.RoleEmployee,
	})
	require.NoError(t, err)

	_, _, err = service.LoginUser(ctx, "eve@example.com", "wrong", models.RoleEmployee)
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestRegister_Validation(t *testing.T) {
	service := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		user models.User
	}{
		{"missing name", models.User{Email: "a@b.c", Password: "secret1", Role: models.RoleClient}},
		{"bad email", models.User{Name: "A", Email: "not-an-email", Password: "secret1", Role: models.RoleClient}},
		{"short password", models.User{Name: "A", Email: "a@b.c", Password: "123", Role: models.RoleClient}},
		{"bad role", models.User{Name: "A", Email: "a@b.c", Password: "secret1", Role: "admin"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := service.RegisterUser(ctx, tc.user)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestRegister_DuplicateEmailAndRole(t *testing.T) {
	service := newUserService(t)
	ctx := context.Background()

	user := models.User{Name: "A", Email: "a@b.c", Password: "secret1", Role: models.RoleClient}
	_, _, err := service.RegisterUser(ctx, user)
	require.NoError(t, err)

	_, _, err = service.RegisterUser(ctx, user)
	assert.True(t, errors.Is(err, ErrUserExists))

	// The same email under another role is a different account.
	user.Role = models.RoleManager
	_, _, err = service.RegisterUser(ctx, user)
	assert.NoError(t, err)
}
