package repository

import (
	"context"
	"net/http"
	"sync"

	"github.com/homefix/maintenance-service/internal/models"
)

// Snapshotter сохраняет и загружает полный срез заявок.
// Репозиторий вызывает Save после каждой мутации.
type Snapshotter interface {
	Save(ctx context.Context, requests []models.MaintenanceRequest) error
	Load(ctx context.Context) ([]models.MaintenanceRequest, error)
}

// MemoryRequestRepository - реализация RequestRepository в памяти.
// Заявки хранятся в порядке создания; наружу отдаются только копии.
type MemoryRequestRepository struct {
	mu       sync.Mutex
	requests []models.MaintenanceRequest
	snapshot Snapshotter
}

// NewMemoryRequestRepository создаёт новый экземпляр MemoryRequestRepository.
// snapshot может быть nil - тогда состояние живёт только в памяти.
func NewMemoryRequestRepository(snapshot Snapshotter) *MemoryRequestRepository {
	return &MemoryRequestRepository{snapshot: snapshot}
}

// Restore загружает сохранённый срез заявок. Вызывается один раз при старте.
func (r *MemoryRequestRepository) Restore(ctx context.Context) error {
	if r.snapshot == nil {
		return nil
	}
	requests, err := r.snapshot.Load(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.requests = requests
	r.mu.Unlock()
	return nil
}

func (r *MemoryRequestRepository) persist(ctx context.Context) error {
	if r.snapshot == nil {
		return nil
	}
	return r.snapshot.Save(ctx, r.requests)
}

func copyRequest(request models.MaintenanceRequest) models.MaintenanceRequest {
	out := request
	out.Images = append([]string(nil), request.Images...)
	out.Bids = make([]models.Bid, len(request.Bids))
	for i, bid := range request.Bids {
		out.Bids[i] = bid
		out.Bids[i].AvailableDates = append([]string(nil), bid.AvailableDates...)
	}
	return out
}

// GetByID возвращает копию заявки по ID, либо nil, если заявка не найдена.
func (r *MemoryRequestRepository) GetByID(_ context.Context, requestID string) (*models.MaintenanceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == requestID {
			request := copyRequest(r.requests[i])
			return &request, nil
		}
	}
	return nil, nil
}

// GetByRenterID возвращает заявки арендатора в порядке создания.
func (r *MemoryRequestRepository) GetByRenterID(_ context.Context, renterID string) ([]models.MaintenanceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var requests []models.MaintenanceRequest
	for i := range r.requests {
		if r.requests[i].RenterID == renterID {
			requests = append(requests, copyRequest(r.requests[i]))
		}
	}
	return requests, nil
}

// GetAll возвращает копию всего среза заявок.
func (r *MemoryRequestRepository) GetAll(_ context.Context) ([]models.MaintenanceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	requests := make([]models.MaintenanceRequest, 0, len(r.requests))
	for i := range r.requests {
		requests = append(requests, copyRequest(r.requests[i]))
	}
	return requests, nil
}

// Insert добавляет новую заявку в конец среза.
func (r *MemoryRequestRepository) Insert(ctx context.Context, request *models.MaintenanceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == request.ID {
			return models.NewErrorResponse(http.StatusConflict, "request id already exists")
		}
	}
	r.requests = append(r.requests, copyRequest(*request))
	return r.persist(ctx)
}

// Update сохраняет скалярные поля заявки. Срез предложений не трогается.
func (r *MemoryRequestRepository) Update(ctx context.Context, request *models.MaintenanceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == request.ID {
			bids := r.requests[i].Bids
			updated := copyRequest(*request)
			updated.Bids = bids
			r.requests[i] = updated
			return r.persist(ctx)
		}
	}
	return models.NewErrorResponse(http.StatusNotFound, "request not found")
}

// InsertBid добавляет предложение к заявке. Срез предложений только растёт.
func (r *MemoryRequestRepository) InsertBid(ctx context.Context, requestID string, bid *models.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == requestID {
			stored := *bid
			stored.AvailableDates = append([]string(nil), bid.AvailableDates...)
			r.requests[i].Bids = append(r.requests[i].Bids, stored)
			return r.persist(ctx)
		}
	}
	return models.NewErrorResponse(http.StatusNotFound, "request not found")
}
