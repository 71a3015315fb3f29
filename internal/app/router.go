package app

import (
	"net/http"
	"taskManager/internal/handlers"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter собирает маршруты поверх подключённого хранилища. До открытия gate он не виден клиентам.
func NewRouter(userHandler *handlers.UserHandler, taskHandler *handlers.TaskHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)

	r.Get("/", handlers.Liveness)
	r.Get("/health", taskHandler.HealthCheck)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)    // POST /users
		r.Put("/", userHandler.UpdateUser)     // PUT /users
		r.Get("/{email}", userHandler.GetUser) // GET /users/{email}
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.ListTasks)               // GET /tasks
		r.Post("/", taskHandler.CreateTask)             // POST /tasks
		r.Post("/reorder", taskHandler.ReorderTasks)    // POST /tasks/reorder
		r.Get("/{key}", taskHandler.GetTasksByKey)      // GET /tasks/{email} или /tasks/{id}
		r.Put("/{id}", taskHandler.UpdateTaskCategory)  // PUT /tasks/{id}
		r.Patch("/{id}", taskHandler.ReplaceCategories) // PATCH /tasks/{id}
		r.Delete("/{id}", taskHandler.DeleteTask)       // DELETE /tasks/{id}
	})

	return r
}
