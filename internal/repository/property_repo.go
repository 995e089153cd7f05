package repository

import (
	"context"

	"github.com/homefix/maintenance-service/internal/models"
)

// PropertyRepository - интерфейс каталога объектов недвижимости.
// GetByID возвращает nil без ошибки, если объект не найден.
type PropertyRepository interface {
	GetByID(ctx context.Context, propertyID string) (*models.Property, error)
	GetAll(ctx context.Context) ([]models.Property, error)
}

// MemoryPropertyRepository - каталог объектов в памяти с предзаполненными данными.
type MemoryPropertyRepository struct {
	properties []models.Property
}

// NewMemoryPropertyRepository создаёт каталог с предзаполненными объектами.
func NewMemoryPropertyRepository() *MemoryPropertyRepository {
	return &MemoryPropertyRepository{
		properties: []models.Property{
			{ID: "1", Address: "123 Main St, Apt 4B", LandlordID: "2"},
			{ID: "2", Address: "456 Oak Ave", LandlordID: "2"},
		},
	}
}

// GetByID возвращает объект по ID.
func (r *MemoryPropertyRepository) GetByID(_ context.Context, propertyID string) (*models.Property, error) {
	for i := range r.properties {
		if r.properties[i].ID == propertyID {
			property := r.properties[i]
			return &property, nil
		}
	}
	return nil, nil
}

// GetAll возвращает все объекты каталога.
func (r *MemoryPropertyRepository) GetAll(_ context.Context) ([]models.Property, error) {
	out := make([]models.Property, len(r.properties))
	copy(out, r.properties)
	return out, nil
}
