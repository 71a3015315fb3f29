package app

import (
	"context"
	"fmt"
	"net/http"
	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/repository/database"
	taskinmemory "taskManager/internal/repository/task/inmemory"
	taskmongo "taskManager/internal/repository/task/mongodb"
	taskpostgres "taskManager/internal/repository/task/postgres"
	userinmemory "taskManager/internal/repository/user/inmemory"
	usermongo "taskManager/internal/repository/user/mongodb"
	userpostgres "taskManager/internal/repository/user/postgres"
	"taskManager/internal/service"
	"taskManager/internal/worker"

	"go.uber.org/zap"
)

type storage struct {
	users service.UserRepository
	tasks service.TaskRepository
	close func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Repository.Type {
	case config.RepositoryMongo:
		return openMongo(ctx, cfg)
	case config.RepositoryPostgres:
		return openPostgres(ctx, cfg)
	case config.RepositoryInMemory:
		logger.Warn("App: Используется хранилище в памяти, данные не переживут рестарт")
		return &storage{
			users: userinmemory.NewUserStorage(),
			tasks: taskinmemory.NewTaskStorage(),
			close: func() {},
		}, nil
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища: %s", cfg.Repository.Type)
	}
}

func openMongo(ctx context.Context, cfg *config.Config) (*storage, error) {
	client, err := database.NewMongo(ctx, cfg.MongoURI(), cfg.Database.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	users, err := usermongo.New(ctx, client, cfg.Database.Name)
	if err != nil {
		database.CloseMongo(client)
		return nil, err
	}
	tasks, err := taskmongo.New(ctx, client, cfg.Database.Name)
	if err != nil {
		database.CloseMongo(client)
		return nil, err
	}

	logger.Info("App: Хранилище MongoDB готово", zap.String("database", cfg.Database.Name))
	return &storage{
		users: users,
		tasks: tasks,
		close: func() { database.CloseMongo(client) },
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*storage, error) {
	if err := database.MigratePostgres(cfg.Postgres.URL); err != nil {
		return nil, err
	}

	pool, err := database.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}

	logger.Info("App: Хранилище PostgreSQL готово")
	return &storage{
		users: userpostgres.New(pool),
		tasks: taskpostgres.New(pool),
		close: func() {
			pool.Close()
			logger.Info("Repository: Пул PostgreSQL закрыт")
		},
	}, nil
}

// connect вызывается StartupWorker'ом на каждой попытке подключения
func (a *App) connect(ctx context.Context) (worker.HealthChecker, http.Handler, error) {
	st, err := openStorage(ctx, a.config)
	if err != nil {
		return nil, nil, err
	}
	a.addShutdown(st.close)

	userService := service.NewUserService(st.users)
	taskService := service.NewTaskService(st.tasks)

	router := NewRouter(
		handlers.NewUserHandler(userService),
		handlers.NewTaskHandler(taskService),
	)
	return taskService, router, nil
}
