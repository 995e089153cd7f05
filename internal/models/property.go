package models

// Property представляет объект недвижимости, по которому подаются заявки.
type Property struct {
	ID         string `json:"id"`
	Address    string `json:"address"`
	LandlordID string `json:"landlordId"`
}
