package handlers

import (
	"net/http"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/service"
	"time"

	"go.uber.org/zap"
)

type UserHandler struct {
	UserService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		UserService: userService,
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateUserRequest
	if err := decodeBody(r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		writeDecodeError(w, err)
		return
	}

	logger.Info("HTTP: Вызов сервиса создания пользователя")
	created, err := h.UserService.CreateUser(r.Context(), service.CreateUserInput{
		Email:       request.Email,
		Name:        request.Name,
		Image:       request.Image,
		Location:    request.Location,
		Description: request.Description,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_user"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to create user", err)
		return
	}

	logger.Info("HTTP_OUT: Пользователь создан",
		zap.String("user_id", created.ID.Hex()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithMessage(w, http.StatusCreated, "User created successfully", toPayload("user", dto.FromUser(created)))
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.UpdateUserRequest
	if err := decodeBody(r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		writeDecodeError(w, err)
		return
	}

	updated, err := h.UserService.UpdateUser(r.Context(), request.Email, request.Profile())
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "update_user"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to update user", err)
		return
	}

	logger.Info("HTTP_OUT: Пользователь обновлён",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithMessage(w, http.StatusOK, "User updated successfully", toPayload("user", dto.FromUser(updated)))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	email, err := pathParam(r, "email")
	if err != nil {
		writePathParamError(w, r, "email", err)
		return
	}

	found, err := h.UserService.GetUser(r.Context(), email)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_user"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithInternal(w, "Failed to fetch user profile", err)
		return
	}

	logger.Info("HTTP_OUT: Пользователь получен",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithMessage(w, http.StatusOK, "User profile fetched successfully", toPayload("user", dto.FromUser(found)))
}
