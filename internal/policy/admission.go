package policy

import (
	"github.com/shopspring/decimal"

	"github.com/ForTeamEffect/kap-front/cardex/models"
)

// DefaultPhysicalCardPrice is the physical card price in MXNT.
var DefaultPhysicalCardPrice = decimal.RequireFromString("500.00")

type DenialReason string

const (
	DenialOrderPending        DenialReason = "ORDER_PENDING"
	DenialCardInManufacturing DenialReason = "CARD_IN_MANUFACTURING"
	DenialInsufficientFunds   DenialReason = "INSUFFICIENT_FUNDS"
)

func (r DenialReason) Message() string {
	switch r {
	case DenialOrderPending:
		return "Physical card order is in progress."
	case DenialCardInManufacturing:
		return "Physical card is scheduled for manufacturing (embossing)."
	case DenialInsufficientFunds:
		return "To create a physical card, please fund your FastEx Wallet."
	}
	return string(r)
}

// CanOrderPhysical decides whether the account may order a physical card.
// Checks run in order: access gate, pending order, card still in
// manufacturing, then funds. The wallet balance must be strictly greater than
// the price.
func CanOrderPhysical(account models.Account, person models.Person, price decimal.Decimal) error {
	if err := RequireAccess(person); err != nil {
		return err
	}
	if account.PhysicalOrderPending {
		return &OrderDeniedError{Reason: DenialOrderPending}
	}
	for _, c := range account.PhysicalCards() {
		if c.Manufacturing != models.ManufacturingEmbossed {
			return &OrderDeniedError{Reason: DenialCardInManufacturing}
		}
	}
	if !person.WalletBalance.GreaterThan(price) {
		return &OrderDeniedError{
			Reason:  DenialInsufficientFunds,
			Balance: person.WalletBalance,
			Price:   price,
		}
	}
	return nil
}

// OrderPhysical admits an order and returns the account marked as having a
// pending physical order. The flag is cleared by the backend once the new card
// record exists.
func OrderPhysical(account models.Account, person models.Person, price decimal.Decimal) (models.Account, error) {
	if err := CanOrderPhysical(account, person, price); err != nil {
		return models.Account{}, err
	}
	next := account.Clone()
	next.PhysicalOrderPending = true
	return next, nil
}
