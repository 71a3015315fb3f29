package service

import (
	"context"
	"taskManager/internal/models/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	GetByID(context.Context, primitive.ObjectID) (*task.Task, error)
	GetAll(context.Context) ([]*task.Task, error)
	GetByEmail(context.Context, string) ([]*task.Task, error)
	// UpdateCategory не проверяет существование задачи
	UpdateCategory(context.Context, primitive.ObjectID, task.Category) error
	SetPosition(context.Context, primitive.ObjectID, int) error
	Delete(context.Context, primitive.ObjectID) error
}
