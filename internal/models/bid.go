package models

import "time"

// Bid представляет модель предложения исполнителя по заявке.
type Bid struct {
	ID             string    `json:"id"`
	Price          float64   `json:"price"`
	StoreName      string    `json:"storeName"`
	PhoneNumber    string    `json:"phoneNumber"`
	AvailableDates []string  `json:"availableDates"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BidInput представляет структуру запроса для подачи предложения.
type BidInput struct {
	Price          float64  `json:"price"`
	StoreName      string   `json:"storeName"`
	PhoneNumber    string   `json:"phoneNumber"`
	AvailableDates []string `json:"availableDates"`
}
