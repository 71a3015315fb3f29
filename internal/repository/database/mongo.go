package database

import (
	"context"
	"fmt"
	"taskManager/internal/logger"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// NewMongo открывает клиент со Stable API v1 и проверяет соединение ping'ом.
// Клиент один на процесс, пул соединений держит драйвер.
func NewMongo(ctx context.Context, uri string, connectTimeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("Repository: Ошибка подключения к MongoDB", err)
		return nil, fmt.Errorf("подключение к mongodb: %w", err)
	}

	if err := PingMongo(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("Repository: Успешное подключение к MongoDB")
	return client, nil
}

func PingMongo(ctx context.Context, client *mongo.Client) error {
	start := time.Now()
	err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Info("Repository: Соединение стабильно", zap.Duration("ms", time.Since(start)))
	return nil
}

func CloseMongo(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.Error("Repository: Ошибка закрытия соединения MongoDB", err)
		return
	}
	logger.Info("Repository: Закрытие всех соединений MongoDB")
}
