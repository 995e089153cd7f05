package repository

import (
	"context"
	"errors"

	"github.com/homefix/maintenance-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// RequestRepository - интерфейс для работы с заявками на обслуживание.
// GetByID возвращает nil без ошибки, если заявка не найдена.
// Update сохраняет только скалярные поля заявки; предложения добавляются
// исключительно через InsertBid, удаление предложений не предусмотрено.
type RequestRepository interface {
	GetByID(ctx context.Context, requestID string) (*models.MaintenanceRequest, error)
	GetByRenterID(ctx context.Context, renterID string) ([]models.MaintenanceRequest, error)
	GetAll(ctx context.Context) ([]models.MaintenanceRequest, error)
	Insert(ctx context.Context, request *models.MaintenanceRequest) error
	Update(ctx context.Context, request *models.MaintenanceRequest) error
	InsertBid(ctx context.Context, requestID string, bid *models.Bid) error
}

// PostgresRequestRepository - реализация RequestRepository для базы данных.
type PostgresRequestRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresRequestRepository создаёт новый экземпляр PostgresRequestRepository.
func NewPostgresRequestRepository(db *pgxpool.Pool) *PostgresRequestRepository {
	return &PostgresRequestRepository{DB: db}
}

const requestColumns = `id, renter_id, renter_name, property_id, property_address, category, description,
	images, status, created_at, updated_at, accepted_bid_id, scheduled_date, is_confirmed,
	completed_date, completed_notes, rebid_required, rebid_reason, rebid_approved`

func scanRequest(row pgx.Row, request *models.MaintenanceRequest) error {
	return row.Scan(
		&request.ID,
		&request.RenterID,
		&request.RenterName,
		&request.PropertyID,
		&request.PropertyAddress,
		&request.Category,
		&request.Description,
		pq.Array(&request.Images),
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.AcceptedBidID,
		&request.ScheduledDate,
		&request.IsConfirmed,
		&request.CompletedDate,
		&request.CompletedNotes,
		&request.RebidRequired,
		&request.RebidReason,
		&request.RebidApproved,
	)
}

// GetByID возвращает заявку по ID вместе с её предложениями.
func (r *PostgresRequestRepository) GetByID(ctx context.Context, requestID string) (*models.MaintenanceRequest, error) {
	var request models.MaintenanceRequest
	query := `SELECT ` + requestColumns + ` FROM maintenance_request WHERE id = $1`
	err := scanRequest(r.DB.QueryRow(ctx, query, requestID), &request)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	bids, err := r.getBids(ctx, requestID)
	if err != nil {
		return nil, err
	}
	request.Bids = bids
	return &request, nil
}

// GetByRenterID возвращает список заявок арендатора в порядке создания.
func (r *PostgresRequestRepository) GetByRenterID(ctx context.Context, renterID string) ([]models.MaintenanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_request WHERE renter_id = $1 ORDER BY created_at`
	return r.queryRequests(ctx, query, renterID)
}

// GetAll возвращает список всех заявок в порядке создания.
func (r *PostgresRequestRepository) GetAll(ctx context.Context) ([]models.MaintenanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_request ORDER BY created_at`
	return r.queryRequests(ctx, query)
}

func (r *PostgresRequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]models.MaintenanceRequest, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.MaintenanceRequest
	for rows.Next() {
		var request models.MaintenanceRequest
		if err := scanRequest(rows, &request); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range requests {
		bids, err := r.getBids(ctx, requests[i].ID)
		if err != nil {
			return nil, err
		}
		requests[i].Bids = bids
	}
	return requests, nil
}

func (r *PostgresRequestRepository) getBids(ctx context.Context, requestID string) ([]models.Bid, error) {
	query := `SELECT id, price, store_name, phone_number, available_dates, created_at
	          FROM bid WHERE request_id = $1 ORDER BY created_at`
	rows, err := r.DB.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := []models.Bid{}
	for rows.Next() {
		var bid models.Bid
		if err := rows.Scan(
			&bid.ID,
			&bid.Price,
			&bid.StoreName,
			&bid.PhoneNumber,
			pq.Array(&bid.AvailableDates),
			&bid.CreatedAt); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

// Insert сохраняет новую заявку.
func (r *PostgresRequestRepository) Insert(ctx context.Context, request *models.MaintenanceRequest) error {
	insertQuery := `
		INSERT INTO maintenance_request (id, renter_id, renter_name, property_id, property_address,
		    category, description, images, status, created_at, updated_at, accepted_bid_id,
		    scheduled_date, is_confirmed, completed_date, completed_notes, rebid_required,
		    rebid_reason, rebid_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		request.ID,
		request.RenterID,
		request.RenterName,
		request.PropertyID,
		request.PropertyAddress,
		request.Category,
		request.Description,
		pq.Array(request.Images),
		request.Status,
		request.CreatedAt,
		request.UpdatedAt,
		request.AcceptedBidID,
		request.ScheduledDate,
		request.IsConfirmed,
		request.CompletedDate,
		request.CompletedNotes,
		request.RebidRequired,
		request.RebidReason,
		request.RebidApproved)
	return err
}

// Update сохраняет скалярные поля заявки.
func (r *PostgresRequestRepository) Update(ctx context.Context, request *models.MaintenanceRequest) error {
	updateQuery := `
		UPDATE maintenance_request
		SET status = $1, updated_at = $2, accepted_bid_id = $3, scheduled_date = $4,
		    is_confirmed = $5, completed_date = $6, completed_notes = $7, rebid_required = $8,
		    rebid_reason = $9, rebid_approved = $10
		WHERE id = $11`
	_, err := r.DB.Exec(
		ctx,
		updateQuery,
		request.Status,
		request.UpdatedAt,
		request.AcceptedBidID,
		request.ScheduledDate,
		request.IsConfirmed,
		request.CompletedDate,
		request.CompletedNotes,
		request.RebidRequired,
		request.RebidReason,
		request.RebidApproved,
		request.ID)
	return err
}

// InsertBid добавляет предложение к заявке. Таблица предложений только растёт.
func (r *PostgresRequestRepository) InsertBid(ctx context.Context, requestID string, bid *models.Bid) error {
	insertQuery := `INSERT INTO bid (id, request_id, price, store_name, phone_number, available_dates, created_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		bid.ID,
		requestID,
		bid.Price,
		bid.StoreName,
		bid.PhoneNumber,
		pq.Array(bid.AvailableDates),
		bid.CreatedAt)
	return err
}
