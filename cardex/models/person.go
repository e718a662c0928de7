package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ModerationApproved is the moderation code of an approved address.
const ModerationApproved = 10

type Address struct {
	Formatted       string `json:"formatted_address"`
	ModerationState int    `json:"is_moderated"`
	Active          bool   `json:"is_active"`
}

// Verified reports whether the address is approved and active.
func (a Address) Verified() bool {
	return a.ModerationState == ModerationApproved && a.Active
}

// Person is the owner of accounts together with its verification state.
// WalletBalance comes from the external wallet and is only used for physical
// card order admission.
type Person struct {
	ID                  string          `json:"id"`
	FullName            string          `json:"fullName"`
	CountryCode         string          `json:"countryCode"`
	TierLevel           int             `json:"tierLevel"`
	HasRequiredDocument bool            `json:"exist_mexdoc"`
	Addresses           []Address       `json:"address"`
	Accounts            []Account       `json:"accounts"`
	WalletBalance       decimal.Decimal `json:"walletBalance"`
}

// Clone returns a deep copy of the person.
func (p Person) Clone() Person {
	out := p
	if p.Addresses != nil {
		out.Addresses = make([]Address, len(p.Addresses))
		copy(out.Addresses, p.Addresses)
	}
	if p.Accounts != nil {
		out.Accounts = make([]Account, len(p.Accounts))
		for i, a := range p.Accounts {
			out.Accounts[i] = a.Clone()
		}
	}
	return out
}

// Account looks an account up by name. Names compare case-insensitively
// after trimming.
func (p Person) Account(name string) (Account, bool) {
	name = strings.TrimSpace(name)
	for _, a := range p.Accounts {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Account{}, false
}

// FindCard returns the card with the given ID and the account owning it.
func (p Person) FindCard(cardID string) (Card, Account, bool) {
	for _, a := range p.Accounts {
		if c, ok := a.Card(cardID); ok {
			return c, a, true
		}
	}
	return Card{}, Account{}, false
}
