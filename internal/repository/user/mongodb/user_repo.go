package mongodb

import (
	"context"
	"errors"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"
	"taskManager/internal/repository/database"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
}

// New создаёт уникальный индекс по email: дубликаты отсекает сама база.
func New(ctx context.Context, client *mongo.Client, dbName string) (*Storage, error) {
	users := client.Database(dbName).Collection(database.UsersCollection)

	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("users_email_key").SetUnique(true),
	})
	if err != nil {
		logger.Error("Repository: Не удалось создать уникальный индекс пользователей", err)
		return nil, fmt.Errorf("создание индекса users.email: %w", err)
	}

	return &Storage{client: client, users: users}, nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return database.PingMongo(ctx, s.client)
}

func (s *Storage) Create(ctx context.Context, userToCreate *user.User) error {
	start := time.Now()

	if userToCreate.ID.IsZero() {
		userToCreate.ID = primitive.NewObjectID()
	}

	if _, err := s.users.InsertOne(ctx, userToCreate); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.Warn("Repository: Дубликат email", zap.String("email", userToCreate.Email))
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}
	return nil
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	start := time.Now()

	found := &user.User{}
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(found)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return found, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, email string, profile user.Profile) (*user.User, error) {
	start := time.Now()

	update := bson.M{"$set": bson.M{
		"name":        profile.Name,
		"location":    profile.Location,
		"description": profile.Description,
		"image":       profile.Image,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	updated := &user.User{}
	err := s.users.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить пользователя", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("обновление пользователя: %w", err)
	}
	return updated, nil
}
