package router

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/homefix/maintenance-service/internal/models"
	"github.com/homefix/maintenance-service/internal/services"
	"github.com/homefix/maintenance-service/internal/utils"
)

// Middleware держит зависимости промежуточных обработчиков.
type Middleware struct {
	Auth   *services.AuthService
	Logger *log.Logger
}

// NewMiddleware создаёт новый экземпляр Middleware.
func NewMiddleware(auth *services.AuthService, logger *log.Logger) *Middleware {
	return &Middleware{Auth: auth, Logger: logger}
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Logger.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				m.Logger.Println(fmt.Errorf("%s", err))
				utils.SendErrorResponse(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequireRole проверяет access-токен и то, что роль пользователя входит
// в список допустимых для маршрута. Пользователь кладётся в контекст запроса.
func (m *Middleware) RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				utils.SendErrorResponse(w, http.StatusUnauthorized, "Authorization header missing or invalid")
				return
			}
			accessToken := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := m.Auth.Authenticate(r.Context(), accessToken)
			if err != nil {
				if errorResponse, ok := err.(*models.ErrorResponse); ok {
					utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
					return
				}
				utils.SendErrorResponse(w, http.StatusUnauthorized, "authentication failed")
				return
			}

			allowed := false
			for _, role := range roles {
				if user.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				utils.SendErrorResponse(w, http.StatusForbidden,
					fmt.Sprintf("forbidden: role %s is not allowed for this operation", user.Role))
				return
			}

			ctx := utils.WithUser(r.Context(), *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
