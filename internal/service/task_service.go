package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	rep "taskManager/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// локальная часть @ домен . зона, без пробелов
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
	}
}

type CreateTaskInput struct {
	Email       string
	Title       string
	Description string
	Category    task.Category
}

func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (*task.Task, error) {
	missing := []string{}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return nil, NewValidationError("Email, Title, and Category are required", missing...)
	}

	if !in.Category.IsKnown() {
		logger.Warn("Service: Неизвестная категория задачи", zap.String("category", string(in.Category)))
	}

	// в хранилищах точность до миллисекунд
	newTask := &task.Task{
		ID:          primitive.NewObjectID(),
		Email:       in.Email,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Timestamp:   s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", newTask.ID.Hex()),
		zap.String("email", newTask.Email))
	return newTask, nil
}

// ListTasks считает пустую коллекцию ошибкой NOT_FOUND, а не пустым списком.
func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	if len(tasks) == 0 {
		return nil, NewNotFound(TaskResource, "*", "No tasks found")
	}
	return tasks, nil
}

func (s *TaskService) ListTasksByEmail(ctx context.Context, email string) ([]*task.Task, error) {
	if !IsEmail(email) {
		return nil, NewValidationError("Invalid email format", "email")
	}

	tasks, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("получение задач пользователя: %w", err)
	}
	if len(tasks) == 0 {
		logger.Info("Service: У пользователя нет задач", zap.String("email", email))
		return nil, NewNotFound(TaskResource, email, "No tasks found for this user")
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id primitive.ObjectID) (*task.Task, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.Hex()))
			return nil, NewNotFound(TaskResource, id.Hex(), "Task not found")
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}

// UpdateCategory не проверяет ни существование задачи, ни допустимость категории.
func (s *TaskService) UpdateCategory(ctx context.Context, id primitive.ObjectID, category task.Category) error {
	if !category.IsKnown() {
		logger.Warn("Service: Неизвестная категория задачи",
			zap.String("task_id", id.Hex()),
			zap.String("category", string(category)))
	}

	if err := s.repo.UpdateCategory(ctx, id, category); err != nil {
		return fmt.Errorf("обновление категории: %w", err)
	}
	return nil
}

// ReplaceCategories принимает список флагов целиком, категорией становится первый активный флаг.
func (s *TaskService) ReplaceCategories(ctx context.Context, id primitive.ObjectID, flags []task.CategoryFlag) (*task.Task, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCategory(ctx, id, task.FromFlags(flags)); err != nil {
		return nil, fmt.Errorf("замена категорий: %w", err)
	}

	return s.GetTask(ctx, id)
}

func (s *TaskService) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача для удаления не найдена", zap.String("target_id", id.Hex()))
			return NewNotFound(TaskResource, id.Hex(), "Task not found")
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

// ReorderTasks выставляет position = индекс по одному обновлению на задачу.
// Атомарности нет: при ошибке уже выполненные обновления остаются.
func (s *TaskService) ReorderTasks(ctx context.Context, taskIDs []string) error {
	if taskIDs == nil {
		return errors.New("список taskIds не передан")
	}

	start := time.Now()
	for position, rawID := range taskIDs {
		id, err := primitive.ObjectIDFromHex(rawID)
		if err != nil {
			return fmt.Errorf("неверный id %q на позиции %d: %w", rawID, position, err)
		}
		if err := s.repo.SetPosition(ctx, id, position); err != nil {
			logger.Warn("Service: Порядок задач обновлён частично",
				zap.Int("applied", position),
				zap.Int("total", len(taskIDs)))
			return fmt.Errorf("обновление позиции задачи %s: %w", rawID, err)
		}
	}

	logger.Info("Service: Порядок задач обновлён",
		zap.Int("count", len(taskIDs)),
		zap.Duration("ms", time.Since(start)))
	return nil
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}
