package service

import (
	"context"
	"errors"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/user"
	rep "taskManager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

type CreateUserInput struct {
	Email       string
	Name        string
	Image       string
	Location    string
	Description string
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*user.User, error) {
	if in.Email == "" {
		return nil, NewValidationError("Email is required", "email")
	}

	newUser := &user.User{
		ID:          primitive.NewObjectID(),
		Email:       in.Email,
		Name:        in.Name,
		Image:       in.Image,
		Location:    in.Location,
		Description: in.Description,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, rep.ErrAlreadyExists) {
			logger.Info("Service: Пользователь уже существует", zap.String("email", in.Email))
			return nil, NewAlreadyExists(UserResource, in.Email, "User already exists")
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	logger.Info("Service: Пользователь создан",
		zap.String("email", newUser.Email),
		zap.String("user_id", newUser.ID.Hex()))
	return newUser, nil
}

// UpdateUser перезаписывает все изменяемые поля, отсутствующие в запросе становятся пустыми.
func (s *UserService) UpdateUser(ctx context.Context, email string, profile user.Profile) (*user.User, error) {
	if email == "" {
		return nil, NewValidationError("Email is required", "email")
	}

	updated, err := s.repo.UpdateProfile(ctx, email, profile)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Пользователь не найден", zap.String("email", email))
			return nil, NewNotFound(UserResource, email, "User not found")
		}
		return nil, fmt.Errorf("обновление пользователя: %w", err)
	}
	return updated, nil
}

func (s *UserService) GetUser(ctx context.Context, email string) (*user.User, error) {
	found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Пользователь не найден", zap.String("email", email))
			return nil, NewNotFound(UserResource, email, "User not found")
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return found, nil
}

func (s *UserService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}
