package inmemory

import (
	"context"
	"sync"
	"taskManager/internal/logger"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStorage индексирует пользователей по email, проверка и вставка идут под одной блокировкой.
type UserStorage struct {
	storage map[string]user.User
	mtx     *sync.RWMutex
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		storage: make(map[string]user.User),
		mtx:     &sync.RWMutex{},
	}
}

func (s *UserStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[userToCreate.Email]; ok {
		return repo.ErrAlreadyExists
	}
	if userToCreate.ID.IsZero() {
		userToCreate.ID = primitive.NewObjectID()
	}

	s.storage[userToCreate.Email] = *userToCreate
	return nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	found, ok := s.storage[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &found, nil
}

func (s *UserStorage) UpdateProfile(ctx context.Context, email string, profile user.Profile) (*user.User, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	found, ok := s.storage[email]
	if !ok {
		return nil, repo.ErrNotFound
	}

	found.SetProfile(profile)
	s.storage[email] = found
	return &found, nil
}
