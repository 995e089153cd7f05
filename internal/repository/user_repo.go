package repository

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/homefix/maintenance-service/internal/models"
)

// UserRepository - интерфейс для работы с учётными записями.
// GetByEmail возвращает nil без ошибки, если пользователь не найден.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user models.User) error
}

// MemoryUserRepository - реализация UserRepository в памяти.
// Аутентификация в системе имитационная: три предзаполненные учётные
// записи, новые пользователи не переживают перезапуск.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]models.User
}

// NewMemoryUserRepository создаёт репозиторий с предзаполненными учётными записями.
func NewMemoryUserRepository() *MemoryUserRepository {
	users := map[string]models.User{
		"renter@example.com": {
			ID:    "1",
			Email: "renter@example.com",
			Name:  "Robert Renter",
			Role:  models.RenterRole,
		},
		"landlord@example.com": {
			ID:    "2",
			Email: "landlord@example.com",
			Name:  "Lucy Landlord",
			Role:  models.LandlordRole,
		},
		"admin@example.com": {
			ID:    "3",
			Email: "admin@example.com",
			Name:  "Adam Admin",
			Role:  models.AdminRole,
		},
	}
	return &MemoryUserRepository{users: users}
}

// GetByEmail возвращает пользователя по адресу почты.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Create добавляет нового пользователя.
func (r *MemoryUserRepository) Create(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.users[email]; ok {
		return models.NewErrorResponse(http.StatusConflict, "email already in use")
	}
	user.Email = email
	r.users[email] = user
	return nil
}
