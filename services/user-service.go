package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/ArfiyaHashmi/Task-Management-System/models"
	"github.com/ArfiyaHashmi/Task-Management-System/repositories"
	"github.com/ArfiyaHashmi/Task-Management-System/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	Users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{Users: users}
}

// RegisterUser creates the user and returns it together with a signed
// token, so registration doubles as a login.
func (s *UserService) RegisterUser(ctx context.Context, user models.User) (models.User, string, error) {
	if err := validateRegistration(user); err != nil {
		return models.User{}, "", err
	}

	exists, err := s.Users.ExistsByEmailAndRole(ctx, user.Email, user.Role)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return models.User{}, "", ErrUserExists
	}

	user.Name = html.EscapeString(user.Name)

	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed

	created, err := s.Users.Insert(ctx, user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to save user: %w", err)
	}

	token, err := utils.GenerateToken(created.ID.Hex(), created.Role)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to sign token: %w", err)
	}

	created.Password = ""
	return created, token, nil
}

// LoginUser authenticates against the {email, role} pair. A role mismatch
// is indistinguishable from a wrong password.
func (s *UserService) LoginUser(ctx context.Context, email, password, role string) (models.User, string, error) {
	if email == "" || password == "" || !models.IsValidRole(role) {
		return models.User{}, "", ErrValidation
	}

	user, err := s.Users.FindByEmailAndRole(ctx, email, role)
	if err == repositories.ErrUserNotFound {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to sign token: %w", err)
	}

	result := *user
	result.Password = ""
	return result, token, nil
}

func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := *user
	result.Password = ""
	return &result, nil
}

func (s *UserService) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	users, err := s.Users.FindByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func validateRegistration(user models.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !strings.Contains(user.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(user.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	if !models.IsValidRole(user.Role) {
		return fmt.Errorf("%w: role must be manager, employee or client", ErrValidation)
	}
	return nil
}
