package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/homefix/maintenance-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix - префикс ключа слота текущего пользователя.
const sessionKeyPrefix = "maintenance:user:"

// SessionRepository - интерфейс для хранения активных сессий.
// Get возвращает nil без ошибки, если сессия не найдена или истекла.
type SessionRepository interface {
	Save(ctx context.Context, token string, user models.User, ttl time.Duration) error
	Get(ctx context.Context, token string) (*models.User, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessionRepository - реализация SessionRepository поверх Redis.
// Запись пользователя сериализуется в JSON под ключом с токеном.
type RedisSessionRepository struct {
	rdb *redis.Client
}

// NewRedisSessionRepository создаёт новый экземпляр RedisSessionRepository.
func NewRedisSessionRepository(rdb *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb}
}

// Save сохраняет запись пользователя по токену с временем жизни.
func (r *RedisSessionRepository) Save(ctx context.Context, token string, user models.User, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKeyPrefix+token, payload, ttl).Err()
}

// Get возвращает запись пользователя по токену.
func (r *RedisSessionRepository) Get(ctx context.Context, token string) (*models.User, error) {
	payload, err := r.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete удаляет сессию по токену.
func (r *RedisSessionRepository) Delete(ctx context.Context, token string) error {
	return r.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

type memorySession struct {
	user      models.User
	expiresAt time.Time
}

// MemorySessionRepository - реализация SessionRepository в памяти.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

// NewMemorySessionRepository создаёт новый экземпляр MemorySessionRepository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]memorySession)}
}

// Save сохраняет запись пользователя по токену с временем жизни.
func (r *MemorySessionRepository) Save(_ context.Context, token string, user models.User, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = memorySession{user: user, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Get возвращает запись пользователя по токену.
func (r *MemorySessionRepository) Get(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok || time.Now().After(session.expiresAt) {
		return nil, nil
	}
	user := session.user
	return &user, nil
}

// Delete удаляет сессию по токену.
func (r *MemorySessionRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}
