package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"taskManager/internal/logger"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// HealthChecker - подключённое хранилище, которое можно пинговать
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ConnectFunc подключается к хранилищу и собирает рабочий роутер поверх него
type ConnectFunc func(ctx context.Context) (HealthChecker, http.Handler, error)

type Opener interface {
	Open(http.Handler)
}

var ErrStartupTimeout = errors.New("хранилище не стало доступно за отведённое время")

type StartupWorker struct {
	connect        ConnectFunc
	gate           Opener
	interval       time.Duration
	maxStartupTime time.Duration
	initialBackoff time.Duration
	pingTimeout    time.Duration

	store   HealthChecker
	healthy atomic.Bool
}

func NewStartupWorker(connect ConnectFunc, gate Opener, interval *time.Duration, maxStartupTime *time.Duration) *StartupWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = time.Minute
	} else {
		intervalToSet = *interval
	}

	var startupToSet time.Duration
	if maxStartupTime == nil || *maxStartupTime <= 0 {
		startupToSet = 2 * time.Minute
	} else {
		startupToSet = *maxStartupTime
	}

	return &StartupWorker{
		connect:        connect,
		gate:           gate,
		interval:       intervalToSet,
		maxStartupTime: startupToSet,
		initialBackoff: 500 * time.Millisecond,
		pingTimeout:    5 * time.Second,
	}
}

// WithInitialBackoff задаёт первую паузу между попытками подключения
func (w *StartupWorker) WithInitialBackoff(d time.Duration) *StartupWorker {
	w.initialBackoff = d
	return w
}

// Start подключается к хранилищу с экспоненциальной паузой, открывает gate
// и дальше периодически пингует хранилище до отмены ctx.
func (w *StartupWorker) Start(ctx context.Context) error {
	if err := w.Connect(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка хранилища останавливается")
			return nil
		}
	}
}

func (w *StartupWorker) Connect(ctx context.Context) error {
	start := time.Now()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.initialBackoff
	b.MaxElapsedTime = w.maxStartupTime

	attempt := 0
	type connected struct {
		store   HealthChecker
		handler http.Handler
	}

	result, err := backoff.RetryNotifyWithData(func() (connected, error) {
		attempt++
		store, handler, err := w.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return connected{}, backoff.Permanent(ctx.Err())
			}
			return connected{}, err
		}
		return connected{store: store, handler: handler}, nil
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		logger.Warn("Worker: Хранилище недоступно, повтор подключения",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", next),
			zap.Error(err))
	})
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("Worker: Подключение прервано остановкой сервиса")
			return ctx.Err()
		}
		logger.Error("Worker: Не удалось подключиться к хранилищу", err,
			zap.Int("attempts", attempt),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("%w: %w", ErrStartupTimeout, err)
	}

	w.store = result.store
	w.healthy.Store(true)
	w.gate.Open(result.handler)

	logger.Info("Worker: Хранилище подключено",
		zap.Int("attempts", attempt),
		zap.Duration("ms", time.Since(start)))
	return nil
}

// Check пингует хранилище и логирует смену состояния
func (w *StartupWorker) Check(ctx context.Context) {
	if w.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, w.pingTimeout)
	defer cancel()

	start := time.Now()
	err := w.store.HealthCheck(ctx)

	switch {
	case err != nil && w.healthy.Load():
		logger.Warn("Worker: Хранилище перестало отвечать", zap.Error(err))
	case err != nil:
		logger.Warn("Worker: Хранилище по-прежнему недоступно", zap.Error(err))
	case !w.healthy.Load():
		logger.Info("Worker: Хранилище снова доступно", zap.Duration("ms", time.Since(start)))
	default:
		logger.Info("Worker: Хранилище доступно", zap.Duration("ms", time.Since(start)))
	}
	w.healthy.Store(err == nil)
}

func (w *StartupWorker) Healthy() bool {
	return w.healthy.Load()
}
