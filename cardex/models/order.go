package models

import "github.com/shopspring/decimal"

// DeliveryAddress is where a physical card is shipped.
type DeliveryAddress struct {
	CountryCode  string `json:"addrCountryCode" validate:"required,len=2"`
	City         string `json:"addrCity" validate:"required,max=100"`
	PostalCode   string `json:"addrPostalCode" validate:"required,max=8"`
	Street       string `json:"addrStreet" validate:"required,max=100"`
	Number       string `json:"addrNumber" validate:"required,max=8"`
	Neighborhood string `json:"addrNeighborhood,omitempty" validate:"max=100"`
	Complement   string `json:"addrComplement,omitempty" validate:"max=100"`
	AdmAreaCode  string `json:"addrAdmAreaCode,omitempty" validate:"max=100"`
}

// PhysicalCardOrder is the request sent to the backend once admission passed.
type PhysicalCardOrder struct {
	AccountName    string          `json:"accountName"`
	CardholderName string          `json:"cardholderName"`
	Price          decimal.Decimal `json:"price"`
	Address        DeliveryAddress `json:"address"`
}

// Activation carries the card identity typed by the owner.
type Activation struct {
	AccountName string `json:"accountName"`
	CardID      string `json:"cardId"`
	PAN         string `json:"pan"`
	PIN         string `json:"pin"`
}
