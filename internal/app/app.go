package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"taskManager/internal/config"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/worker"
	"time"

	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type App struct {
	config *config.Config
	server *http.Server
	gate   *middleware.Gate
	worker *worker.StartupWorker

	mtx       sync.Mutex
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	a := &App{
		config:    cfg,
		gate:      middleware.NewGate(),
		shutdowns: make([]func(), 0),
	}

	a.server = &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      a.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.WriteTimeout,
	}

	a.worker = worker.NewStartupWorker(a.connect, a.gate,
		&cfg.Worker.HealthInterval, &cfg.Worker.MaxStartupTime)

	a.addShutdown(func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})
	return a
}

// Handler - полная цепочка: трассировка, request id, лог, CORS и gate с роутером внутри
func (a *App) Handler() http.Handler {
	var h http.Handler = a.gate
	h = cors.Handler(cors.Options{
		AllowedOrigins:   []string{a.config.Server.AllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})(h)
	h = middleware.Logging(h)
	h = middleware.RequestID(h)
	return otelhttp.NewHandler(h, "task-manager")
}

// Ready сообщает, открыт ли gate
func (a *App) Ready() bool {
	return a.gate.IsOpen()
}

// Connect подключает хранилище и открывает gate без запуска сервера
func (a *App) Connect(ctx context.Context) error {
	return a.worker.Connect(ctx)
}

func (a *App) addShutdown(fn func()) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.shutdowns = append(a.shutdowns, fn)
}

// Run поднимает слушатель сразу, хранилище подключается в фоне.
// Возвращается после отмены ctx, ошибки сервера или провала подключения.
func (a *App) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("открытие порта %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, listener)
}

func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("App: Сервер запущен", zap.String("addr", listener.Addr().String()))
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("работа сервера: %w", err)
		}
	}()

	go func() {
		if err := a.worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("App: Получен сигнал остановки")
	case runErr = <-errCh:
		logger.Error("App: Остановка из-за ошибки", runErr)
	}

	cancel()
	a.Shutdown()
	return runErr
}

func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error("App: Ошибка остановки сервера", err)
	}

	a.mtx.Lock()
	shutdowns := a.shutdowns
	a.shutdowns = nil
	a.mtx.Unlock()

	// в обратном порядке: хранилище закрывается до сброса логов
	for i := len(shutdowns) - 1; i >= 0; i-- {
		shutdowns[i]()
	}
	logger.Info("App: Сервис остановлен", zap.Duration("ms", time.Since(start)))
}
