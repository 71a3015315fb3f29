package middleware

import (
	"context"
	"net/http"
	"taskManager/internal/logger"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

const RequestIDHeader = "X-Request-ID"

// входящий id длиннее этого игнорируется, чтобы не тащить в логи мусор
const maxRequestIDLen = 64

// RequestID берёт id запроса из заголовка клиента или выдаёт новый UUID
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status != 0 {
		return
	}
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= 500:
		return zap.ErrorLevel
	case status >= 400:
		return zap.WarnLevel
	default:
		return zap.InfoLevel
	}
}

// Logging пишет пару записей на запрос; уровень второй зависит от статуса ответа
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := zap.String("request_id", GetRequestID(r.Context()))

		logger.HttpRequestInfo(r, "HTTP_IN: Начало запроса",
			requestID,
			zap.String("query", r.URL.RawQuery),
			zap.String("origin", r.Header.Get("Origin")))

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		logger.Log(levelFor(rec.status), "HTTP_OUT: Завершение запроса",
			requestID,
			zap.Int("status", rec.status),
			zap.Int("bytes_written", rec.bytes),
			zap.Duration("ms", time.Since(start)))
	})
}
