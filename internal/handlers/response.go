package handlers

import (
	"encoding/json"
	"net/http"
	"taskManager/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	storage := make(map[string]any)
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	if err := json.NewEncoder(w).Encode(storage); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

func responseWithMessage(w http.ResponseWriter, code int, message string, payload ...Payload) {
	responseWithJSON(w, code, append([]Payload{toPayload("message", message)}, payload...)...)
}

// responseWithInternal отдаёт клиенту текст исходной ошибки вместе с сообщением операции
func responseWithInternal(w http.ResponseWriter, message string, err error) {
	responseWithJSON(w, http.StatusInternalServerError,
		toPayload("message", message),
		toPayload("error", err.Error()),
	)
}
