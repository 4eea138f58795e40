package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"taskboard/internal/logger"
	"taskboard/internal/service"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithError(w, statusCode, businessErr.Message)
		return true
	}
	return false
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "ALREADY_EXISTS":
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
