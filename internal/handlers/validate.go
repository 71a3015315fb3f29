package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"taskManager/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errUnsupportedMedia = errors.New("неверный Content-Type, ожидается application/json")

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeBody читает JSON-тело. Пустое тело и тело без Content-Type дают нулевой запрос,
// как будто пришёл пустой объект.
func decodeBody(r *http.Request, dst any) error {
	if r.Header.Get("Content-Type") != "" && !checkContentType(r, "application/json") {
		return errUnsupportedMedia
	}
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errUnsupportedMedia) {
		responseWithMessage(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	responseWithMessage(w, http.StatusBadRequest, "Invalid request body", toPayload("error", err.Error()))
}

// pathParam возвращает параметр маршрута в раскодированном виде.
// chi отдаёт сырой сегмент, если у запроса есть RawPath, иначе уже раскодированный.
func pathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}

func writePathParamError(w http.ResponseWriter, r *http.Request, name string, err error) {
	logger.Warn("HTTP: Неверно закодированный параметр пути",
		zap.String("param", name),
		zap.String("client_ip", r.RemoteAddr),
		zap.Error(err))
	responseWithMessage(w, http.StatusBadRequest, "Invalid path parameter")
}
