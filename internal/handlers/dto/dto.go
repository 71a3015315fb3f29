package dto

import (
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
)

// TimestampLayout - ISO-8601 в UTC с миллисекундами
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type CreateUserRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// UpdateUserRequest перезаписывает профиль целиком, отсутствующие поля становятся пустыми
type UpdateUserRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (r UpdateUserRequest) Profile() user.Profile {
	return user.Profile{
		Name:        r.Name,
		Location:    r.Location,
		Description: r.Description,
		Image:       r.Image,
	}
}

type UserResponse struct {
	ID          string `json:"_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID.Hex(),
		Email:       u.Email,
		Name:        u.Name,
		Image:       u.Image,
		Location:    u.Location,
		Description: u.Description,
	}
}

type CreateTaskRequest struct {
	Email       string        `json:"email"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    task.Category `json:"category"`
}

type UpdateCategoryRequest struct {
	Category task.Category `json:"category"`
}

type ReplaceCategoriesRequest struct {
	Categories []task.CategoryFlag `json:"categories"`
}

type ReorderRequest struct {
	TaskIDs []string `json:"taskIds"`
}

type TaskResponse struct {
	ID          string              `json:"_id"`
	Email       string              `json:"email"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    task.Category       `json:"category"`
	Categories  []task.CategoryFlag `json:"categories"`
	Timestamp   string              `json:"timestamp"`
	Position    *int                `json:"position,omitempty"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.Hex(),
		Email:       t.Email,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Categories:  t.Category.Flags(),
		Timestamp:   t.Timestamp.UTC().Format(TimestampLayout),
		Position:    t.Position,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
