package postgres

import (
	"context"
	"errors"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const selectTasks = `SELECT
				id,
				email,
				title,
				description,
				category,
				timestamp,
				position
				FROM tasks`

// Storage использует пул, созданный в database.NewPostgres; закрывает его владелец.
type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	if taskToCreate.ID.IsZero() {
		taskToCreate.ID = primitive.NewObjectID()
	}

	query := `INSERT INTO tasks
				(id, email, title, description, category, timestamp, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		taskToCreate.ID.Hex(),
		taskToCreate.Email,
		taskToCreate.Title,
		taskToCreate.Description,
		string(taskToCreate.Category),
		taskToCreate.Timestamp,
		taskToCreate.Position,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow(start, 50*time.Millisecond)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id primitive.ObjectID) (*task.Task, error) {
	start := time.Now()

	found, err := scanTask(s.pool.QueryRow(ctx, selectTasks+` WHERE id = $1`, id.Hex()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow(start, 100*time.Millisecond)
	return found, nil
}

func (s *Storage) GetAll(ctx context.Context) ([]*task.Task, error) {
	return s.query(ctx, selectTasks+` ORDER BY id`)
}

func (s *Storage) GetByEmail(ctx context.Context, email string) ([]*task.Task, error) {
	return s.query(ctx, selectTasks+` WHERE email = $1 ORDER BY id`, email)
}

func (s *Storage) query(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, 50*time.Millisecond+time.Millisecond*time.Duration(len(tasks)))
	return tasks, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, id primitive.ObjectID, category task.Category) error {
	start := time.Now()

	_, err := s.pool.Exec(ctx, `UPDATE tasks SET category = $1 WHERE id = $2`, string(category), id.Hex())
	if err != nil {
		logger.Error("Repository: Не удалось обновить категорию", err, zap.String("task_id", id.Hex()))
		return fmt.Errorf("обновление категории: %w", err)
	}

	warnIfSlow(start, 100*time.Millisecond)
	return nil
}

func (s *Storage) SetPosition(ctx context.Context, id primitive.ObjectID, position int) error {
	start := time.Now()

	_, err := s.pool.Exec(ctx, `UPDATE tasks SET position = $1 WHERE id = $2`, position, id.Hex())
	if err != nil {
		logger.Error("Repository: Не удалось обновить позицию", err, zap.String("task_id", id.Hex()))
		return fmt.Errorf("обновление позиции: %w", err)
	}

	warnIfSlow(start, 100*time.Millisecond)
	return nil
}

func (s *Storage) Delete(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id.Hex())
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, 100*time.Millisecond)
	return nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		id       string
		category string
		position *int32
	)
	t := &task.Task{}

	err := row.Scan(
		&id,
		&t.Email,
		&t.Title,
		&t.Description,
		&category,
		&t.Timestamp,
		&position,
	)
	if err != nil {
		return nil, err
	}

	t.ID, err = primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("разбор id %q: %w", id, err)
	}
	t.Category = task.Category(category)
	t.Timestamp = t.Timestamp.UTC()
	if position != nil {
		p := int(*position)
		t.Position = &p
	}
	return t, nil
}

func warnIfSlow(start time.Time, limit time.Duration) {
	if time.Since(start) > limit {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
}
