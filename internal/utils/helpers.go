package utils

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/homefix/maintenance-service/internal/models"
)

type contextKey string

// userContextKey - ключ, под которым аутентифицированный пользователь
// лежит в контексте запроса.
const userContextKey contextKey = "authenticatedUser"

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := models.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Println(err)
	}
}

// ContainsStatus - функция для проверки допустимости перехода статуса заявки
func ContainsStatus(validTransitions []models.RequestStatus, newStatus models.RequestStatus) bool {
	for _, validStatus := range validTransitions {
		if validStatus == newStatus {
			return true
		}
	}
	return false
}

// WithUser кладёт аутентифицированного пользователя в контекст запроса.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext достаёт аутентифицированного пользователя из контекста.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}
