package middleware

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"taskManager/internal/logger"

	"go.uber.org/zap"
)

// Gate отвечает 503, пока в него не передан рабочий обработчик.
// Слушатель поднимается сразу, а маршруты начинают работать только после подключения к хранилищу.
type Gate struct {
	handler atomic.Pointer[http.Handler]
}

func NewGate() *Gate {
	return &Gate{}
}

// Open подменяет заглушку рабочим обработчиком. Повторный вызов заменяет обработчик.
func (g *Gate) Open(h http.Handler) {
	g.handler.Store(&h)
	logger.Info("HTTP: Сервис готов принимать запросы")
}

func (g *Gate) IsOpen() bool {
	return g.handler.Load() != nil
}

func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h := g.handler.Load(); h != nil {
		(*h).ServeHTTP(w, r)
		return
	}

	logger.Warn("HTTP: Запрос до готовности сервиса",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("path", r.URL.Path))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "5")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message":    "Service not ready",
		"request_id": GetRequestID(r.Context()),
	})
}
