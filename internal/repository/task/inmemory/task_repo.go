package inmemory

import (
	"context"
	"sync"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStorage хранит копии задач, наружу тоже отдаются копии.
type TaskStorage struct {
	storage map[primitive.ObjectID]task.Task
	mtx     *sync.RWMutex
	ids     []primitive.ObjectID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[primitive.ObjectID]task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []primitive.ObjectID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.ID.IsZero() {
		taskToCreate.ID = primitive.NewObjectID()
	}
	if _, ok := s.storage[taskToCreate.ID]; ok {
		return repo.ErrAlreadyExists
	}

	s.storage[taskToCreate.ID] = clone(taskToCreate)
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id primitive.ObjectID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	res := clone(&stored)
	return &res, nil
}

// задачи в порядке добавления
func (s *TaskStorage) GetAll(ctx context.Context) ([]*task.Task, error) {
	return s.filter(func(*task.Task) bool { return true }), nil
}

func (s *TaskStorage) GetByEmail(ctx context.Context, email string) ([]*task.Task, error) {
	return s.filter(func(t *task.Task) bool { return t.Email == email }), nil
}

func (s *TaskStorage) filter(match func(*task.Task) bool) []*task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		stored := s.storage[id]
		if !match(&stored) {
			continue
		}
		copied := clone(&stored)
		res = append(res, &copied)
	}
	return res
}

func (s *TaskStorage) UpdateCategory(ctx context.Context, id primitive.ObjectID, category task.Category) error {
	return s.modify(id, task.WithCategory(category))
}

func (s *TaskStorage) SetPosition(ctx context.Context, id primitive.ObjectID, position int) error {
	return s.modify(id, task.WithPosition(position))
}

// отсутствие задачи не ошибка, как у updateOne без совпадений
func (s *TaskStorage) modify(id primitive.ObjectID, opt task.TaskOption) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil
	}
	stored.Apply(opt)
	s.storage[id] = stored
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

func clone(t *task.Task) task.Task {
	res := *t
	if t.Position != nil {
		position := *t.Position
		res.Position = &position
	}
	return res
}
