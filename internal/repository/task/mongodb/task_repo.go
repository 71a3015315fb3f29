package mongodb

import (
	"context"
	"errors"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	repo "taskManager/internal/repository"
	"taskManager/internal/repository/database"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

type Storage struct {
	client *mongo.Client
	tasks  *mongo.Collection
}

func New(ctx context.Context, client *mongo.Client, dbName string) (*Storage, error) {
	tasks := client.Database(dbName).Collection(database.TasksCollection)

	_, err := tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("tasks_email_idx"),
	})
	if err != nil {
		logger.Error("Repository: Не удалось создать индекс задач", err)
		return nil, fmt.Errorf("создание индекса tasks.email: %w", err)
	}

	return &Storage{client: client, tasks: tasks}, nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return database.PingMongo(ctx, s.client)
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer warnIfSlow("create", start)

	if taskToCreate.ID.IsZero() {
		taskToCreate.ID = primitive.NewObjectID()
	}

	if _, err := s.tasks.InsertOne(ctx, taskToCreate); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id primitive.ObjectID) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("get_by_id", start)

	found := &task.Task{}
	err := s.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(found)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}

func (s *Storage) GetAll(ctx context.Context) ([]*task.Task, error) {
	return s.find(ctx, bson.M{})
}

func (s *Storage) GetByEmail(ctx context.Context, email string) ([]*task.Task, error) {
	return s.find(ctx, bson.M{"email": email})
}

func (s *Storage) find(ctx context.Context, filter bson.M) ([]*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("find", start)

	cur, err := s.tasks.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []*task.Task{}
	for cur.Next(ctx) {
		t := &task.Task{}
		if err := cur.Decode(t); err != nil {
			logger.Error("Repository: Ошибка декодирования задачи", err)
			return nil, fmt.Errorf("декодирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := cur.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по курсору", err)
		return nil, fmt.Errorf("итерация по курсору: %w", err)
	}
	return tasks, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, id primitive.ObjectID, category task.Category) error {
	return s.set(ctx, id, bson.M{"category": category})
}

func (s *Storage) SetPosition(ctx context.Context, id primitive.ObjectID, position int) error {
	return s.set(ctx, id, bson.M{"position": position})
}

// set не проверяет MatchedCount: отсутствие задачи не ошибка
func (s *Storage) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	start := time.Now()
	defer warnIfSlow("set", start)

	if _, err := s.tasks.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields}); err != nil {
		logger.Error("Repository: Не удалось обновить поля задачи", err, zap.String("task_id", id.Hex()))
		return fmt.Errorf("обновление полей задачи: %w", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id primitive.ObjectID) error {
	start := time.Now()
	defer warnIfSlow("delete", start)

	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func warnIfSlow(op string, start time.Time) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос",
			zap.String("operation", op),
			zap.Duration("ms", time.Since(start)))
	}
}
