package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/homefix/maintenance-service/internal/models"
	"github.com/homefix/maintenance-service/internal/services"
	"github.com/homefix/maintenance-service/internal/utils"
)

// RequestHandler - структура для обработки HTTP-запросов к заявкам.
type RequestHandler struct {
	Service *services.RequestService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewRequestHandler создаёт новый экземпляр RequestHandler.
func NewRequestHandler(service *services.RequestService, logger *log.Logger, timeout time.Duration) *RequestHandler {
	return &RequestHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

func (h *RequestHandler) sendError(w http.ResponseWriter, err error, fallback string) {
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		h.Logger.Println(err)
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	h.Logger.Println(err)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *RequestHandler) sendJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Println(err)
	}
}

// GetAllRequests обрабатывает запросы для получения списка всех заявок.
func (h *RequestHandler) GetAllRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requests, err := h.Service.GetAllRequests(ctx)
	if err != nil {
		h.sendError(w, err, "failed to fetch requests")
		return
	}
	if requests == nil {
		requests = []models.MaintenanceRequest{}
	}
	h.sendJSON(w, requests)
}

// GetMyRequests обрабатывает запросы для получения заявок текущего арендатора.
func (h *RequestHandler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	user, ok := utils.UserFromContext(ctx)
	if !ok {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	requests, err := h.Service.GetRequestsByRenterID(ctx, user.ID)
	if err != nil {
		h.sendError(w, err, "failed to fetch requests")
		return
	}
	if requests == nil {
		requests = []models.MaintenanceRequest{}
	}
	h.sendJSON(w, requests)
}

// GetRequestByID обрабатывает запросы для получения заявки по ID.
func (h *RequestHandler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestId := r.PathValue("requestId")
	request, err := h.Service.GetRequestByID(ctx, requestId)
	if err != nil {
		h.sendError(w, err, "failed to fetch request")
		return
	}
	h.sendJSON(w, request)
}

// CreateRequest обрабатывает запросы для создания заявки.
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	user, ok := utils.UserFromContext(ctx)
	if !ok {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input models.RequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.CreateRequest(ctx, user, input)
	if err != nil {
		h.sendError(w, err, "failed to create request")
		return
	}

	h.sendJSON(w, models.RequestResponse{
		Message: "Maintenance request submitted successfully!",
		Request: request,
	})
}

// UpdateRequestStatus обрабатывает запросы для смены статуса заявки.
func (h *RequestHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestId := r.PathValue("requestId")

	var input models.StatusUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.UpdateRequestStatus(ctx, requestId, input.Status)
	if err != nil {
		h.sendError(w, err, "failed to update request status")
		return
	}

	message, ok := models.StatusMessages[request.Status]
	if !ok {
		message = "Request status updated"
	}
	h.sendJSON(w, models.RequestResponse{Message: message, Request: request})
}

// AddBid обрабатывает запросы для подачи предложения по заявке.
func (h *RequestHandler) AddBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestId := r.PathValue("requestId")

	var input models.BidInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.AddBid(ctx, requestId, input)
	if err != nil {
		h.sendError(w, err, "failed to add bid")
		return
	}

	h.sendJSON(w, models.RequestResponse{
		Message: "Bid submitted successfully!",
		Request: request,
	})
}

// AcceptBid обрабатывает запросы для принятия предложения.
func (h *RequestHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestId := r.PathValue("requestId")
	bidId := r.PathValue("bidId")

	request, err := h.Service.AcceptBid(ctx, requestId, bidId)
	if err != nil {
		h.sendError(w, err, "failed to accept bid")
		return
	}

	h.sendJSON(w, models.RequestResponse{
		Message: "Bid accepted! Awaiting renter confirmation.",
		Request: request,
	})
}

// ConfirmSchedule обрабатывает запросы для подтверждения расписания.
func (h *RequestHandler) ConfirmSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestId := r.PathValue("requestId")

	var input models.ConfirmInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.ConfirmSchedule(ctx, requestId, input.Confirmed)
	if err != nil {
		h.sendError(w, err, "failed to confirm schedule")
		return
	}

	message := "Schedule confirmed!"
	if !input.Confirmed {
		message = "Reschedule requested."
	}
	h.sendJSON(w, models.RequestResponse{Message: message, Request: request})
}

// MarkRequestComplete обрабатывает запросы для завершения работ по заявке.
func (h *RequestHandler) MarkRequestComplete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestId := r.PathValue("requestId")

	var input models.CompleteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.MarkRequestComplete(ctx, requestId, input.Notes)
	if err != nil {
		h.sendError(w, err, "failed to mark request complete")
		return
	}

	h.sendJSON(w, models.RequestResponse{
		Message: "Maintenance request marked as complete!",
		Request: request,
	})
}

// RequestRebid обрабатывает запросы арендатора на повторный сбор предложений.
func (h *RequestHandler) RequestRebid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestId := r.PathValue("requestId")

	var input models.RebidInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.RequestRebid(ctx, requestId, input.Reason)
	if err != nil {
		h.sendError(w, err, "failed to request rebid")
		return
	}

	h.sendJSON(w, models.RequestResponse{
		Message: "Rebid request submitted to landlord for approval.",
		Request: request,
	})
}

// ApproveRebid обрабатывает решение арендодателя по повторному сбору.
func (h *RequestHandler) ApproveRebid(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requestId := r.PathValue("requestId")

	var input models.RebidDecisionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.ApproveRebid(ctx, requestId, input.Approved)
	if err != nil {
		h.sendError(w, err, "failed to submit rebid decision")
		return
	}

	message := "Rebid approved, seeking new bids."
	if !input.Approved {
		message = "Rebid declined."
	}
	h.sendJSON(w, models.RequestResponse{Message: message, Request: request})
}

// GetProperties обрабатывает запросы для получения каталога объектов.
func (h *RequestHandler) GetProperties(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	properties, err := h.Service.GetProperties(ctx)
	if err != nil {
		h.sendError(w, err, "failed to fetch properties")
		return
	}
	h.sendJSON(w, properties)
}
