package handlers

import (
	"errors"
	"net/http"
	"taskManager/internal/logger"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.String("message", businessErr.Message),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeAlreadyExists:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// errorHandlerFunc - обработчик, который не отвечает на неожиданные ошибки сам
type errorHandlerFunc func(w http.ResponseWriter, r *http.Request) error

// errorStage - общая точка обработки для обработчиков, вернувших ошибку: лог и обезличенный 500
func errorStage(h errorHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			logger.Error("HTTP: Необработанная ошибка", err,
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("client_ip", r.RemoteAddr))

			responseWithMessage(w, http.StatusInternalServerError, "Something went wrong")
		}
	}
}
