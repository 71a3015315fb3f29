package service

import (
	"context"
	"taskManager/internal/models/user"
)

type UserRepository interface {
	HealthCheck(context.Context) error
	// Create возвращает ErrAlreadyExists при повторном email, уникальность держит хранилище
	Create(context.Context, *user.User) error
	GetByEmail(context.Context, string) (*user.User, error)
	UpdateProfile(context.Context, string, user.Profile) (*user.User, error)
}
