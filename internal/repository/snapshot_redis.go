package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/homefix/maintenance-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// requestsSlotKey - ключ, под которым хранится весь срез заявок.
const requestsSlotKey = "maintenance:requests"

// RedisSnapshotter сохраняет срез заявок как один JSON-массив
// под фиксированным ключом.
type RedisSnapshotter struct {
	rdb *redis.Client
}

// NewRedisSnapshotter создаёт новый экземпляр RedisSnapshotter.
func NewRedisSnapshotter(rdb *redis.Client) *RedisSnapshotter {
	return &RedisSnapshotter{rdb: rdb}
}

// Save сериализует срез заявок и записывает его в слот.
func (s *RedisSnapshotter) Save(ctx context.Context, requests []models.MaintenanceRequest) error {
	if requests == nil {
		requests = []models.MaintenanceRequest{}
	}
	payload, err := json.Marshal(requests)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, requestsSlotKey, payload, 0).Err()
}

// Load читает слот и восстанавливает срез заявок.
// Пустой слот - не ошибка: возвращается пустой срез.
func (s *RedisSnapshotter) Load(ctx context.Context) ([]models.MaintenanceRequest, error) {
	payload, err := s.rdb.Get(ctx, requestsSlotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var requests []models.MaintenanceRequest
	if err := json.Unmarshal(payload, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
