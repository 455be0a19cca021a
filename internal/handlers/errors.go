package handlers

import (
	"errors"
	"net/http"
	"todoTracker/internal/confirm"
	"todoTracker/internal/logger"
	"todoTracker/internal/repository"

	"go.uber.org/zap"
)

const (
	codeBadRequest      = "BAD_REQUEST"
	codeConflict        = "CONFLICT"
	codePromptNotFound  = "PROMPT_NOT_FOUND"
	codeInternal        = "INTERNAL"
	codeUnsupportedType = "UNSUPPORTED_MEDIA_TYPE"
)

func mapErrorCodeToHTTP(code string) int {
	switch code {
	case repository.CodeInvalidArgument:
		return http.StatusBadRequest
	case repository.CodeNotFound:
		return http.StatusNotFound
	case repository.CodePersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleError переводит ошибки репозитория и подтверждений в HTTP-ответ
func handleError(w http.ResponseWriter, err error, operation string) {
	var repoErr *repository.Error
	switch {
	case errors.As(err, &repoErr):
		statusCode := mapErrorCodeToHTTP(repoErr.Code)
		logger.Warn("HTTP: Ошибка репозитория",
			zap.String("operation", operation),
			zap.String("error_code", repoErr.Code),
			zap.Int("http_status", statusCode))

		payload := []Payload{
			toPayload("error", repoErr.Code),
			toPayload("message", repoErr.Message),
		}
		// детали ошибки хранилища наружу не отдаются
		if repoErr.Code != repository.CodePersistence && len(repoErr.Details) > 0 {
			payload = append(payload, toPayload("details", repoErr.Details))
		}
		responseWithJSON(w, statusCode, payload...)

	case errors.Is(err, confirm.ErrNotPrompting), errors.Is(err, confirm.ErrAlreadyPrompting):
		logger.Warn("HTTP: Запрос подтверждения уже обработан", zap.String("operation", operation))
		responseWithError(w, http.StatusConflict, codeConflict, "Запрос подтверждения уже обработан")

	case errors.Is(err, confirm.ErrPromptNotFound):
		logger.Warn("HTTP: Запрос подтверждения не найден", zap.String("operation", operation))
		responseWithError(w, http.StatusNotFound, codePromptNotFound, "Запрос подтверждения не найден или истёк")

	default:
		logger.Error("HTTP: Необработанная ошибка", err, zap.String("operation", operation))
		responseWithError(w, http.StatusInternalServerError, codeInternal, "Внутренняя ошибка сервера")
	}
}
