package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/homefix/maintenance-service/internal/models"
	"github.com/homefix/maintenance-service/internal/repository"
	"github.com/homefix/maintenance-service/internal/utils"

	"github.com/google/uuid"
)

// defaultCompletedNotes - заметка по умолчанию при завершении работ.
const defaultCompletedNotes = "Work completed successfully."

type RequestService struct {
	Repo       repository.RequestRepository
	Properties repository.PropertyRepository
}

// NewRequestService создаёт новый экземпляр RequestService.
func NewRequestService(repo repository.RequestRepository, properties repository.PropertyRepository) *RequestService {
	return &RequestService{Repo: repo, Properties: properties}
}

// CreateRequest создает новую заявку на обслуживание.
// Имя арендатора и адрес объекта копируются на момент создания.
func (s *RequestService) CreateRequest(ctx context.Context, renter models.User, input models.RequestInput) (*models.MaintenanceRequest, error) {
	if input.PropertyID == "" || input.Description == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields")
	}
	if !models.AllowedCategories[input.Category] {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported category: %s", input.Category))
	}

	property, err := s.Properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to look up property")
	}
	if property == nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "unknown property")
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now().UTC()
	newRequest := models.MaintenanceRequest{
		ID:              uuid.New().String(),
		RenterID:        renter.ID,
		RenterName:      renter.Name,
		PropertyID:      property.ID,
		PropertyAddress: property.Address,
		Category:        input.Category,
		Description:     input.Description,
		Images:          images,
		Status:          models.SubmittedRequest,
		CreatedAt:       now,
		UpdatedAt:       now,
		Bids:            []models.Bid{},
	}

	if err := s.Repo.Insert(ctx, &newRequest); err != nil {
		return nil, err
	}
	return &newRequest, nil
}

// UpdateRequestStatus меняет статус заявки с проверкой допустимости перехода.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, requestID string, status models.RequestStatus) (*models.MaintenanceRequest, error) {
	if !models.AllowedStatuses[status] {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("invalid request status: %s", status))
	}

	currentRequest, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if currentRequest == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
	}

	allowedStatusTransition := map[models.RequestStatus][]models.RequestStatus{
		models.SubmittedRequest:       {models.PendingApprovalRequest, models.SeekingBidsRequest, models.DeclinedRequest},
		models.PendingApprovalRequest: {models.SeekingBidsRequest, models.DeclinedRequest},
		models.SeekingBidsRequest:     {models.BidsReceivedRequest},
		models.BidsReceivedRequest:    {models.BidAcceptedRequest, models.SeekingBidsRequest},
		models.BidAcceptedRequest:     {models.ScheduledRequest, models.SeekingBidsRequest},
		models.ScheduledRequest:       {models.BidAcceptedRequest, models.CompletedRequest, models.SeekingBidsRequest},
		models.CompletedRequest:       {},
		models.DeclinedRequest:        {},
	}

	validTransition := allowedStatusTransition[currentRequest.Status]
	if !utils.ContainsStatus(validTransition, status) {
		return nil, models.NewErrorResponse(http.StatusBadRequest,
			fmt.Sprintf("invalid status transition: %s -> %s", currentRequest.Status, status))
	}

	currentRequest.Status = status
	currentRequest.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, currentRequest); err != nil {
		return nil, err
	}
	return currentRequest, nil
}

// AddBid добавляет предложение исполнителя к заявке.
// Предложение без доступных дат отклоняется, хранилище не меняется.
func (s *RequestService) AddBid(ctx context.Context, requestID string, input models.BidInput) (*models.MaintenanceRequest, error) {
	if len(input.AvailableDates) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "bid must include at least one available date")
	}
	if input.StoreName == "" || input.PhoneNumber == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: storeName or phoneNumber")
	}
	if input.Price < 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "price must be non-negative")
	}

	currentRequest, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if currentRequest == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
	}

	newBid := models.Bid{
		ID:             uuid.New().String(),
		Price:          input.Price,
		StoreName:      input.StoreName,
		PhoneNumber:    input.PhoneNumber,
		AvailableDates: input.AvailableDates,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.InsertBid(ctx, requestID, &newBid); err != nil {
		return nil, err
	}

	currentRequest.Bids = append(currentRequest.Bids, newBid)
	currentRequest.Status = models.BidsReceivedRequest
	currentRequest.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, currentRequest); err != nil {
		return nil, err
	}
	return currentRequest, nil
}

// AcceptBid принимает предложение: заявка переходит в scheduled,
// датой работ становится первая доступная дата принятого предложения.
func (s *RequestService) AcceptBid(ctx context.Context, requestID, bidID string) (*models.MaintenanceRequest, error) {
	currentRequest, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if currentRequest == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
	}

	var acceptedBid *models.Bid
	for i := range currentRequest.Bids {
		if currentRequest.Bids[i].ID == bidID {
			acceptedBid = &currentRequest.Bids[i]
			break
		}
	}
	if acceptedBid == nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "bid does not belong to this request")
	}

	currentRequest.AcceptedBidID = acceptedBid.ID
	currentRequest.ScheduledDate = acceptedBid.AvailableDates[0]
	currentRequest.Status = models.ScheduledRequest
	currentRequest.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, currentRequest); err != nil {
		return nil, err
	}
	return currentRequest, nil
}

// ConfirmSchedule подтверждает либо отклоняет расписание работ.
func (s *RequestService) ConfirmSchedule(ctx context.Context, requestID string, confirmed bool) (*models.MaintenanceRequest, error) {
	currentRequest, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if currentRequest == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
	}

	currentRequest.IsConfirmed = confirmed
	if confirmed {
		currentRequest.Status = models.ScheduledRequest
	} else {
		currentRequest.Status = models.BidAcceptedRequest
	}
	currentRequest.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, currentRequest); err != nil {
		return nil, err
	}
	return currentRequest, nil
}

// MarkRequestComplete помечает работы по заявке завершёнными.
func (s *RequestService) MarkRequestComplete(ctx context.Context, requestID, notes string) (*models.MaintenanceRequest, error) {
	currentRequest, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if currentRequest == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
	}

	if notes == "" {
		notes = defaultCompletedNotes
	}

	now := time.Now().UTC()
	currentRequest.Status = models.CompletedRequest
	currentRequest.CompletedDate = &now
	currentRequest.CompletedNotes = notes
	currentRequest.UpdatedAt = now
	if err := s.Repo.Update(ctx, currentRequest); err != nil {
		return nil, err
	}
	return currentRequest, nil
}

// RequestRebid помечает заявку требующей повторного сбора предложений.
// Статус заявки при этом не меняется.
func (s *RequestService) RequestRebid(ctx context.Context, requestID, reason string) (*models.MaintenanceRequest, error) {
	if reason == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "rebid reason is required")
	}

	currentRequest, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if currentRequest == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
	}

	currentRequest.RebidRequired = true
	currentRequest.RebidReason = reason
	currentRequest.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, currentRequest); err != nil {
		return nil, err
	}
	return currentRequest, nil
}

// ApproveRebid фиксирует решение арендодателя по повторному сбору:
// при одобрении заявка возвращается в seeking_bids, иначе статус не меняется.
func (s *RequestService) ApproveRebid(ctx context.Context, requestID string, approved bool) (*models.MaintenanceRequest, error) {
	currentRequest, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if currentRequest == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
	}

	currentRequest.RebidApproved = &approved
	if approved {
		currentRequest.Status = models.SeekingBidsRequest
	}
	currentRequest.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, currentRequest); err != nil {
		return nil, err
	}
	return currentRequest, nil
}

// GetRequestByID возвращает заявку по ID.
func (s *RequestService) GetRequestByID(ctx context.Context, requestID string) (*models.MaintenanceRequest, error) {
	request, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "request not found")
	}
	return request, nil
}

// GetRequestsByRenterID возвращает заявки арендатора в порядке создания.
func (s *RequestService) GetRequestsByRenterID(ctx context.Context, renterID string) ([]models.MaintenanceRequest, error) {
	return s.Repo.GetByRenterID(ctx, renterID)
}

// GetAllRequests возвращает все заявки в порядке создания.
func (s *RequestService) GetAllRequests(ctx context.Context) ([]models.MaintenanceRequest, error) {
	return s.Repo.GetAll(ctx)
}

// GetProperties возвращает каталог объектов недвижимости.
func (s *RequestService) GetProperties(ctx context.Context) ([]models.Property, error) {
	return s.Properties.GetAll(ctx)
}
