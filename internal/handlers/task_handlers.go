package handlers

import (
	"net/http"
	"strings"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/service"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if err := decodeBody(r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		writeDecodeError(w, err)
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задачи")
	created, err := h.TaskService.CreateTask(r.Context(), service.CreateTaskInput{
		Email:       request.Email,
		Title:       request.Title,
		Description: request.Description,
		Category:    request.Category,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))
		responseWithInternal(w, "Failed to create task", err)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.Hex()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithMessage(w, http.StatusCreated, "Task created successfully", toPayload("task", dto.FromTask(created)))
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := h.TaskService.ListTasks(r.Context())
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "list_tasks"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to fetch tasks", err)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskList(tasks)))
}

// GetTasksByKey обслуживает GET /tasks/{key}: ключ с "@" - email владельца, иначе id задачи.
func (h *TaskHandler) GetTasksByKey(w http.ResponseWriter, r *http.Request) {
	key, err := pathParam(r, "key")
	if err != nil {
		writePathParamError(w, r, "key", err)
		return
	}

	if strings.Contains(key, "@") {
		h.listTasksByEmail(w, r, key)
		return
	}
	errorStage(func(w http.ResponseWriter, r *http.Request) error {
		return h.getTask(w, r, key)
	})(w, r)
}

func (h *TaskHandler) listTasksByEmail(w http.ResponseWriter, r *http.Request, email string) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := h.TaskService.ListTasksByEmail(r.Context(), email)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "list_tasks_by_email"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to fetch tasks", err)
		return
	}

	logger.Info("HTTP_OUT: Задачи пользователя получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskList(tasks)))
}

// getTask не отвечает на неожиданные ошибки сам, их забирает errorStage
func (h *TaskHandler) getTask(w http.ResponseWriter, r *http.Request, idParam string) error {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		logger.Warn("HTTP: Неверный id задачи",
			zap.String("id", idParam),
			zap.String("client_ip", r.RemoteAddr))
		responseWithMessage(w, http.StatusBadRequest, "Invalid task ID")
		return nil
	}

	found, err := h.TaskService.GetTask(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return nil
		}
		return err
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", found.ID.Hex()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(found)))
	return nil
}

// UpdateTaskCategory не проверяет существование задачи; неверный id - это 500, как и ошибка хранилища.
func (h *TaskHandler) UpdateTaskCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to update task category", err)
		return
	}

	var request dto.UpdateCategoryRequest
	if err := decodeBody(r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		writeDecodeError(w, err)
		return
	}

	if err := h.TaskService.UpdateCategory(r.Context(), id, request.Category); err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "update_category"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to update task category", err)
		return
	}

	logger.Info("HTTP_OUT: Категория задачи обновлена",
		zap.String("task_id", id.Hex()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithMessage(w, http.StatusOK, "Task category updated successfully")
}

func (h *TaskHandler) ReplaceCategories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to update task categories", err)
		return
	}

	var request dto.ReplaceCategoriesRequest
	if err := decodeBody(r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		writeDecodeError(w, err)
		return
	}

	updated, err := h.TaskService.ReplaceCategories(r.Context(), id, request.Categories)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "replace_categories"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to update task categories", err)
		return
	}

	logger.Info("HTTP_OUT: Категории задачи заменены",
		zap.String("task_id", id.Hex()),
		zap.String("category", string(updated.Category)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithMessage(w, http.StatusOK, "Task categories updated successfully", toPayload("task", dto.FromTask(updated)))
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to delete task", err)
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "delete_task"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to delete task", err)
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.Hex()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithMessage(w, http.StatusOK, "Task deleted successfully")
}

func (h *TaskHandler) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ReorderRequest
	if err := decodeBody(r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to reorder tasks", err)
		return
	}

	if err := h.TaskService.ReorderTasks(r.Context(), request.TaskIDs); err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "reorder_tasks"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to reorder tasks", err)
		return
	}

	logger.Info("HTTP_OUT: Порядок задач обновлён",
		zap.Int("count", len(request.TaskIDs)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithMessage(w, http.StatusOK, "Tasks reordered successfully")
}
