package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"taskManager/internal/handlers"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"taskManager/internal/service"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockTaskService - мок сервиса задач
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) CreateTask(ctx context.Context, in service.CreateTaskInput) (*task.Task, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasksByEmail(ctx context.Context, email string) ([]*task.Task, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, id primitive.ObjectID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateCategory(ctx context.Context, id primitive.ObjectID, category task.Category) error {
	args := m.Called(ctx, id, category)
	return args.Error(0)
}

func (m *MockTaskService) ReplaceCategories(ctx context.Context, id primitive.ObjectID, flags []task.CategoryFlag) (*task.Task, error) {
	args := m.Called(ctx, id, flags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) ReorderTasks(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

// MockUserService - мок сервиса пользователей
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, in service.CreateUserInput) (*user.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, email string, profile user.Profile) (*user.User, error) {
	args := m.Called(ctx, email, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

var _ handlers.UserService = (*MockUserService)(nil)

// withURLParams кладёт параметры пути в контекст запроса так же, как это делает chi
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func sampleTask(category task.Category) *task.Task {
	return &task.Task{
		ID:        primitive.NewObjectID(),
		Email:     "a@b.com",
		Title:     "T",
		Category:  category,
		Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

// TestTaskHandler_HealthCheck тестирует HealthCheck
func TestTaskHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("service unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			handler := handlers.NewTaskHandler(mockService)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()

			handler.HealthCheck(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), "task-manager")
			mockService.AssertExpectations(t)
		})
	}
}

func TestLiveness(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.Liveness(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "task manager is tasking!", w.Body.String())
}

// TestUserHandler_CreateUser тестирует создание пользователя
func TestUserHandler_CreateUser(t *testing.T) {
	tests := []struct {
		name            string
		requestBody     string
		contentType     string
		setupMock       func(*MockUserService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:        "success - create user",
			requestBody: `{"email":"a@b.com","name":"A","image":"a.png"}`,
			contentType: "application/json",
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, service.CreateUserInput{Email: "a@b.com", Name: "A", Image: "a.png"}).
					Return(&user.User{ID: primitive.NewObjectID(), Email: "a@b.com", Name: "A", Image: "a.png"}, nil)
			},
			expectedStatus:  http.StatusCreated,
			expectedMessage: "User created successfully",
		},
		{
			name:        "error - missing email",
			requestBody: `{"name":"A"}`,
			contentType: "application/json",
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, service.CreateUserInput{Name: "A"}).
					Return(nil, service.NewValidationError("Email is required", "email"))
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Email is required",
		},
		{
			name:        "error - duplicate",
			requestBody: `{"email":"a@b.com"}`,
			contentType: "application/json",
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, service.CreateUserInput{Email: "a@b.com"}).
					Return(nil, service.NewAlreadyExists(service.UserResource, "a@b.com", "User already exists"))
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "User already exists",
		},
		{
			name:        "error - service error",
			requestBody: `{"email":"a@b.com"}`,
			contentType: "application/json",
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("insert failed"))
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Failed to create user",
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockUserService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - invalid content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockUserService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			tt.setupMock(mockService)

			handler := handlers.NewUserHandler(mockService)

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tt.requestBody))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			handler.CreateUser(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeMap(t, w)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, body["message"])
			}
			if tt.expectedStatus == http.StatusCreated {
				created := body["user"].(map[string]any)
				assert.Equal(t, "a@b.com", created["email"])
				assert.Equal(t, "", created["location"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestUserHandler_CreateUser_EmptyBody(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("CreateUser", mock.Anything, service.CreateUserInput{}).
		Return(nil, service.NewValidationError("Email is required", "email"))

	handler := handlers.NewUserHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	w := httptest.NewRecorder()
	handler.CreateUser(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeMap(t, w)
	assert.Equal(t, service.CodeValidation, body["error"])
	mockService.AssertExpectations(t)
}

// TestUserHandler_UpdateUser тестирует перезапись профиля
func TestUserHandler_UpdateUser(t *testing.T) {
	profile := user.Profile{Name: "B", Image: "b.png"}

	tests := []struct {
		name           string
		setupMock      func(*MockUserService)
		expectedStatus int
	}{
		{
			name: "success - update user",
			setupMock: func(m *MockUserService) {
				m.On("UpdateUser", mock.Anything, "a@b.com", profile).
					Return(&user.User{Email: "a@b.com", Name: "B", Image: "b.png"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - user not found",
			setupMock: func(m *MockUserService) {
				m.On("UpdateUser", mock.Anything, "a@b.com", profile).
					Return(nil, service.NewNotFound(service.UserResource, "a@b.com", "User not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "error - service error",
			setupMock: func(m *MockUserService) {
				m.On("UpdateUser", mock.Anything, "a@b.com", profile).Return(nil, errors.New("write failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			tt.setupMock(mockService)

			handler := handlers.NewUserHandler(mockService)

			req := jsonRequest(http.MethodPut, "/users", `{"email":"a@b.com","name":"B","image":"b.png"}`)
			w := httptest.NewRecorder()

			handler.UpdateUser(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				body := decodeMap(t, w)
				assert.Equal(t, "User updated successfully", body["message"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestUserHandler_GetUser тестирует получение профиля
func TestUserHandler_GetUser(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("GetUser", mock.Anything, "a@b.com").Return(&user.User{Email: "a@b.com", Name: "A"}, nil)
	mockService.On("GetUser", mock.Anything, "missing@b.com").
		Return(nil, service.NewNotFound(service.UserResource, "missing@b.com", "User not found"))

	handler := handlers.NewUserHandler(mockService)

	w := httptest.NewRecorder()
	handler.GetUser(w, withURLParams(httptest.NewRequest(http.MethodGet, "/users/a@b.com", nil), map[string]string{"email": "a@b.com"}))
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeMap(t, w)
	assert.Equal(t, "User profile fetched successfully", body["message"])
	assert.Equal(t, "A", body["user"].(map[string]any)["name"])

	w = httptest.NewRecorder()
	handler.GetUser(w, withURLParams(httptest.NewRequest(http.MethodGet, "/users/missing@b.com", nil), map[string]string{"email": "missing@b.com"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeMap(t, w)["message"])

	mockService.AssertExpectations(t)
}

// TestUserHandler_GetUser_EncodedEmail тестирует раскодирование параметра пути
func TestUserHandler_GetUser_EncodedEmail(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("GetUser", mock.Anything, "a@b.com").Return(&user.User{Email: "a@b.com", Name: "A"}, nil)

	handler := handlers.NewUserHandler(mockService)

	w := httptest.NewRecorder()
	handler.GetUser(w, withURLParams(httptest.NewRequest(http.MethodGet, "/users/a%40b.com", nil), map[string]string{"email": "a%40b.com"}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.GetUser(w, withURLParams(httptest.NewRequest(http.MethodGet, "/users/a%40b.com", nil), map[string]string{"email": "a%zz"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid path parameter", decodeMap(t, w)["message"])

	mockService.AssertExpectations(t)
}

// TestTaskHandler_CreateTask тестирует создание задачи
func TestTaskHandler_CreateTask(t *testing.T) {
	created := sampleTask(task.CategoryToDo)

	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:        "success - create task",
			requestBody: `{"email":"a@b.com","title":"T","category":"To-Do"}`,
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, service.CreateTaskInput{Email: "a@b.com", Title: "T", Category: task.CategoryToDo}).
					Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "error - missing fields",
			requestBody: `{"email":"a@b.com"}`,
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).
					Return(nil, service.NewValidationError("Email, Title, and Category are required", "title", "category"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - service error",
			requestBody: `{"email":"a@b.com","title":"T","category":"To-Do"}`,
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).Return(nil, errors.New("insert failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			handler := handlers.NewTaskHandler(mockService)

			w := httptest.NewRecorder()
			handler.CreateTask(w, jsonRequest(http.MethodPost, "/tasks", tt.requestBody))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var response struct {
					Message string           `json:"message"`
					Task    dto.TaskResponse `json:"task"`
				}
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, "Task created successfully", response.Message)
				assert.Equal(t, created.ID.Hex(), response.Task.ID)
				assert.Equal(t, "2024-05-01T10:00:00.000Z", response.Task.Timestamp)
				assert.Equal(t, task.CategoryToDo.Flags(), response.Task.Categories)
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_ListTasks тестирует список задач
func TestTaskHandler_ListTasks(t *testing.T) {
	t.Run("success - tasks returned", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("ListTasks", mock.Anything).Return([]*task.Task{sampleTask(task.CategoryDone)}, nil)

		w := httptest.NewRecorder()
		handlers.NewTaskHandler(mockService).ListTasks(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var response struct {
			Tasks []dto.TaskResponse `json:"tasks"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response.Tasks, 1)
		assert.Equal(t, task.CategoryDone, response.Tasks[0].Category)
	})

	t.Run("error - empty is not found", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("ListTasks", mock.Anything).Return(nil, service.NewNotFound(service.TaskResource, "*", "No tasks found"))

		w := httptest.NewRecorder()
		handlers.NewTaskHandler(mockService).ListTasks(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeMap(t, w)
		assert.Equal(t, "No tasks found", body["message"])
		assert.Equal(t, service.CodeNotFound, body["error"])
	})

	t.Run("error - service error", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("ListTasks", mock.Anything).Return(nil, errors.New("cursor failed"))

		w := httptest.NewRecorder()
		handlers.NewTaskHandler(mockService).ListTasks(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "cursor failed", decodeMap(t, w)["error"])
	})
}

// TestTaskHandler_GetTasksByKey тестирует разбор ключа: email или id
func TestTaskHandler_GetTasksByKey(t *testing.T) {
	taskID := primitive.NewObjectID()

	tests := []struct {
		name            string
		key             string
		setupMock       func(*MockTaskService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "success - by email",
			key:  "a@b.com",
			setupMock: func(m *MockTaskService) {
				m.On("ListTasksByEmail", mock.Anything, "a@b.com").Return([]*task.Task{sampleTask(task.CategoryToDo)}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - bad email shape",
			key:  "a@b",
			setupMock: func(m *MockTaskService) {
				m.On("ListTasksByEmail", mock.Anything, "a@b").
					Return(nil, service.NewValidationError("Invalid email format", "email"))
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid email format",
		},
		{
			name: "error - owner has no tasks",
			key:  "none@b.com",
			setupMock: func(m *MockTaskService) {
				m.On("ListTasksByEmail", mock.Anything, "none@b.com").
					Return(nil, service.NewNotFound(service.TaskResource, "none@b.com", "No tasks found for this user"))
			},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "No tasks found for this user",
		},
		{
			name: "success - by id",
			key:  taskID.Hex(),
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, taskID).Return(&task.Task{ID: taskID, Title: "T"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:            "error - bad id shape",
			key:             "123",
			setupMock:       func(m *MockTaskService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid task ID",
		},
		{
			name: "error - task not found",
			key:  taskID.Hex(),
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, taskID).
					Return(nil, service.NewNotFound(service.TaskResource, taskID.Hex(), "Task not found"))
			},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Task not found",
		},
		{
			name: "error - unexpected error goes to error stage",
			key:  taskID.Hex(),
			setupMock: func(m *MockTaskService) {
				m.On("GetTask", mock.Anything, taskID).Return(nil, errors.New("connection reset"))
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			handler := handlers.NewTaskHandler(mockService)

			req := withURLParams(httptest.NewRequest(http.MethodGet, "/tasks/"+tt.key, nil), map[string]string{"key": tt.key})
			w := httptest.NewRecorder()

			handler.GetTasksByKey(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeMap(t, w)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, body["message"])
			}
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.NotContains(t, body, "error")
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_GetTasksByKey_EncodedKey тестирует ключ, пришедший в закодированном виде
func TestTaskHandler_GetTasksByKey_EncodedKey(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("ListTasksByEmail", mock.Anything, "a@b.com").Return([]*task.Task{sampleTask(task.CategoryToDo)}, nil)

	handler := handlers.NewTaskHandler(mockService)

	w := httptest.NewRecorder()
	handler.GetTasksByKey(w, withURLParams(httptest.NewRequest(http.MethodGet, "/tasks/a%40b.com", nil), map[string]string{"key": "a%40b.com"}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.GetTasksByKey(w, withURLParams(httptest.NewRequest(http.MethodGet, "/tasks/a%40b.com", nil), map[string]string{"key": "a%zz"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid path parameter", decodeMap(t, w)["message"])

	mockService.AssertExpectations(t)
}

// TestTaskHandler_UpdateTaskCategory тестирует PUT /tasks/{id}
func TestTaskHandler_UpdateTaskCategory(t *testing.T) {
	taskID := primitive.NewObjectID()

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - update category",
			id:   taskID.Hex(),
			setupMock: func(m *MockTaskService) {
				m.On("UpdateCategory", mock.Anything, taskID, task.CategoryDone).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - malformed id is internal",
			id:             "bad",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "error - service error",
			id:   taskID.Hex(),
			setupMock: func(m *MockTaskService) {
				m.On("UpdateCategory", mock.Anything, taskID, task.CategoryDone).Return(errors.New("write failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			handler := handlers.NewTaskHandler(mockService)

			req := withURLParams(jsonRequest(http.MethodPut, "/tasks/"+tt.id, `{"category":"Done"}`), map[string]string{"id": tt.id})
			w := httptest.NewRecorder()

			handler.UpdateTaskCategory(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "Task category updated successfully", decodeMap(t, w)["message"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_ReplaceCategories тестирует PATCH /tasks/{id}
func TestTaskHandler_ReplaceCategories(t *testing.T) {
	taskID := primitive.NewObjectID()
	flags := []task.CategoryFlag{
		{Name: task.CategoryToDo, Active: false},
		{Name: task.CategoryInProgress, Active: true},
		{Name: task.CategoryDone, Active: false},
	}
	body := `{"categories":[{"name":"To-Do","active":false},{"name":"In Progress","active":true},{"name":"Done","active":false}]}`

	t.Run("success - replace categories", func(t *testing.T) {
		updated := sampleTask(task.CategoryInProgress)
		updated.ID = taskID

		mockService := new(MockTaskService)
		mockService.On("ReplaceCategories", mock.Anything, taskID, flags).Return(updated, nil)

		w := httptest.NewRecorder()
		handlers.NewTaskHandler(mockService).ReplaceCategories(w,
			withURLParams(jsonRequest(http.MethodPatch, "/tasks/"+taskID.Hex(), body), map[string]string{"id": taskID.Hex()}))

		assert.Equal(t, http.StatusOK, w.Code)
		var response struct {
			Message string           `json:"message"`
			Task    dto.TaskResponse `json:"task"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "Task categories updated successfully", response.Message)
		assert.Equal(t, task.CategoryInProgress, response.Task.Category)
		assert.Equal(t, flags, response.Task.Categories)
		mockService.AssertExpectations(t)
	})

	t.Run("error - not found", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("ReplaceCategories", mock.Anything, taskID, flags).
			Return(nil, service.NewNotFound(service.TaskResource, taskID.Hex(), "Task not found"))

		w := httptest.NewRecorder()
		handlers.NewTaskHandler(mockService).ReplaceCategories(w,
			withURLParams(jsonRequest(http.MethodPatch, "/tasks/"+taskID.Hex(), body), map[string]string{"id": taskID.Hex()}))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("error - malformed id is internal", func(t *testing.T) {
		mockService := new(MockTaskService)

		w := httptest.NewRecorder()
		handlers.NewTaskHandler(mockService).ReplaceCategories(w,
			withURLParams(jsonRequest(http.MethodPatch, "/tasks/bad", body), map[string]string{"id": "bad"}))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		mockService.AssertNotCalled(t, "ReplaceCategories", mock.Anything, mock.Anything, mock.Anything)
	})
}

// TestTaskHandler_DeleteTask тестирует удаление
func TestTaskHandler_DeleteTask(t *testing.T) {
	taskID := primitive.NewObjectID()

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - delete task",
			id:   taskID.Hex(),
			setupMock: func(m *MockTaskService) {
				m.On("DeleteTask", mock.Anything, taskID).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - not found",
			id:   taskID.Hex(),
			setupMock: func(m *MockTaskService) {
				m.On("DeleteTask", mock.Anything, taskID).
					Return(service.NewNotFound(service.TaskResource, taskID.Hex(), "Task not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "error - malformed id is internal",
			id:             "xyz",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			req := withURLParams(httptest.NewRequest(http.MethodDelete, "/tasks/"+tt.id, nil), map[string]string{"id": tt.id})
			w := httptest.NewRecorder()

			handlers.NewTaskHandler(mockService).DeleteTask(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "Task deleted successfully", decodeMap(t, w)["message"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_ReorderTasks тестирует пакетную перестановку
func TestTaskHandler_ReorderTasks(t *testing.T) {
	ids := []string{primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()}

	tests := []struct {
		name            string
		requestBody     string
		setupMock       func(*MockTaskService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:        "success - reorder",
			requestBody: `{"taskIds":["` + ids[0] + `","` + ids[1] + `"]}`,
			setupMock: func(m *MockTaskService) {
				m.On("ReorderTasks", mock.Anything, ids).Return(nil)
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Tasks reordered successfully",
		},
		{
			name:        "error - missing list",
			requestBody: `{}`,
			setupMock: func(m *MockTaskService) {
				m.On("ReorderTasks", mock.Anything, []string(nil)).Return(errors.New("список taskIds не передан"))
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Failed to reorder tasks",
		},
		{
			name:            "error - invalid JSON",
			requestBody:     `{"taskIds":`,
			setupMock:       func(m *MockTaskService) {},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Failed to reorder tasks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := httptest.NewRecorder()
			handlers.NewTaskHandler(mockService).ReorderTasks(w, jsonRequest(http.MethodPost, "/tasks/reorder", tt.requestBody))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMessage, decodeMap(t, w)["message"])
			mockService.AssertExpectations(t)
		})
	}
}
