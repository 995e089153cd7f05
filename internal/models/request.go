package models

import "time"

type (
	RequestStatus       string // Статус заявки на обслуживание
	MaintenanceCategory string // Категория работ
)

const (
	SubmittedRequest       RequestStatus = "submitted"        // Заявка подана арендатором
	PendingApprovalRequest RequestStatus = "pending_approval" // Заявка ожидает одобрения
	SeekingBidsRequest     RequestStatus = "seeking_bids"     // Идёт сбор предложений
	BidsReceivedRequest    RequestStatus = "bids_received"    // Предложения получены
	BidAcceptedRequest     RequestStatus = "bid_accepted"     // Предложение принято
	ScheduledRequest       RequestStatus = "scheduled"        // Работы запланированы
	CompletedRequest       RequestStatus = "completed"        // Работы завершены
	DeclinedRequest        RequestStatus = "declined"         // Заявка отклонена
	RebidRequestedRequest  RequestStatus = "rebid_requested"  // Запрошен повторный сбор предложений

	Plumbing       MaintenanceCategory = "plumbing"
	Electrical     MaintenanceCategory = "electrical"
	Appliance      MaintenanceCategory = "appliance"
	HeatingCooling MaintenanceCategory = "heating/cooling"
	Structural     MaintenanceCategory = "structural"
	Other          MaintenanceCategory = "other"
)

// AllowedCategories - множество допустимых категорий работ.
var AllowedCategories = map[MaintenanceCategory]bool{
	Plumbing:       true,
	Electrical:     true,
	Appliance:      true,
	HeatingCooling: true,
	Structural:     true,
	Other:          true,
}

// AllowedStatuses - множество допустимых статусов заявки.
var AllowedStatuses = map[RequestStatus]bool{
	SubmittedRequest:       true,
	PendingApprovalRequest: true,
	SeekingBidsRequest:     true,
	BidsReceivedRequest:    true,
	BidAcceptedRequest:     true,
	ScheduledRequest:       true,
	CompletedRequest:       true,
	DeclinedRequest:        true,
	RebidRequestedRequest:  true,
}

// StatusMessages - сообщения для пользователя при смене статуса.
var StatusMessages = map[RequestStatus]string{
	PendingApprovalRequest: "Request is pending approval",
	SeekingBidsRequest:     "Now seeking bids for this request",
	BidsReceivedRequest:    "Bids have been received",
	BidAcceptedRequest:     "A bid has been accepted",
	ScheduledRequest:       "Maintenance has been scheduled",
	CompletedRequest:       "Request has been completed",
	DeclinedRequest:        "Request has been declined",
	RebidRequestedRequest:  "Rebid has been requested",
}

// MaintenanceRequest представляет модель заявки на обслуживание.
// Поля RenterName и PropertyAddress - снимки на момент создания заявки,
// они не обновляются при изменении исходных записей.
type MaintenanceRequest struct {
	ID              string              `json:"id"`
	RenterID        string              `json:"renterId"`
	RenterName      string              `json:"renterName"`
	PropertyID      string              `json:"propertyId"`
	PropertyAddress string              `json:"propertyAddress"`
	Category        MaintenanceCategory `json:"category"`
	Description     string              `json:"description"`
	Images          []string            `json:"images"`
	Status          RequestStatus       `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Bids            []Bid               `json:"bids"`
	AcceptedBidID   string              `json:"acceptedBidId,omitempty"`
	ScheduledDate   string              `json:"scheduledDate,omitempty"`
	IsConfirmed     bool                `json:"isConfirmed,omitempty"`
	CompletedDate   *time.Time          `json:"completedDate,omitempty"`
	CompletedNotes  string              `json:"completedNotes,omitempty"`
	RebidRequired   bool                `json:"rebidRequired,omitempty"`
	RebidReason     string              `json:"rebidReason,omitempty"`
	RebidApproved   *bool               `json:"rebidApproved,omitempty"`
}

// RequestInput представляет структуру запроса для создания заявки.
type RequestInput struct {
	PropertyID  string              `json:"propertyId"`
	Category    MaintenanceCategory `json:"category"`
	Description string              `json:"description"`
	Images      []string            `json:"images"`
}

// StatusUpdateInput представляет структуру запроса для смены статуса заявки.
type StatusUpdateInput struct {
	Status RequestStatus `json:"status"`
}

// ConfirmInput представляет структуру запроса для подтверждения расписания.
type ConfirmInput struct {
	Confirmed bool `json:"confirmed"`
}

// CompleteInput представляет структуру запроса для завершения работ.
type CompleteInput struct {
	Notes string `json:"notes"`
}

// RebidInput представляет структуру запроса на повторный сбор предложений.
type RebidInput struct {
	Reason string `json:"reason"`
}

// RebidDecisionInput представляет решение арендодателя по повторному сбору.
type RebidDecisionInput struct {
	Approved bool `json:"approved"`
}

// RequestResponse - ответ на мутирующую операцию: обновлённая заявка и сообщение.
type RequestResponse struct {
	Message string              `json:"message"`
	Request *MaintenanceRequest `json:"request"`
}
