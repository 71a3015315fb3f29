package handlers

import (
	"context"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"taskManager/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	CreateUser(context.Context, service.CreateUserInput) (*user.User, error)
	UpdateUser(context.Context, string, user.Profile) (*user.User, error)
	GetUser(context.Context, string) (*user.User, error)
}

type TaskService interface {
	HealthCheck(context.Context) error
	CreateTask(context.Context, service.CreateTaskInput) (*task.Task, error)
	ListTasks(context.Context) ([]*task.Task, error)
	ListTasksByEmail(context.Context, string) ([]*task.Task, error)
	GetTask(context.Context, primitive.ObjectID) (*task.Task, error)
	UpdateCategory(context.Context, primitive.ObjectID, task.Category) error
	ReplaceCategories(context.Context, primitive.ObjectID, []task.CategoryFlag) (*task.Task, error)
	DeleteTask(context.Context, primitive.ObjectID) error
	ReorderTasks(context.Context, []string) error
}

var (
	_ UserService = (*service.UserService)(nil)
	_ TaskService = (*service.TaskService)(nil)
)
