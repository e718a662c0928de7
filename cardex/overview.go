package cardex

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ForTeamEffect/kap-front/cardex/models"
	"github.com/ForTeamEffect/kap-front/internal/policy"
)

type CardView struct {
	models.Card
	Actions []string `json:"available_actions"`
}

type AccountView struct {
	Name                 string     `json:"account_name"`
	PhysicalOrderPending bool       `json:"is_phys_card_ordered"`
	OrderLabel           string     `json:"order_label"`
	Actions              []string   `json:"available_actions"`
	OrderDenial          string     `json:"order_denial,omitempty"`
	OrderDenialMessage   string     `json:"order_denial_message,omitempty"`
	Cards                []CardView `json:"cards"`
}

// Overview is what the person may see and do right now. Accounts are listed
// only with full access.
type Overview struct {
	PersonID          string             `json:"person_id"`
	FullName          string             `json:"full_name"`
	Access            policy.AccessState `json:"access"`
	Remediation       string             `json:"remediation,omitempty"`
	Message           string             `json:"message,omitempty"`
	WalletBalance     decimal.Decimal    `json:"wallet_balance"`
	PhysicalCardPrice decimal.Decimal    `json:"phys_card_price"`
	Currency          string             `json:"currency"`
	Accounts          []AccountView      `json:"accounts"`
}

// Account returns the view of the named account.
func (o *Overview) Account(name string) (AccountView, bool) {
	for _, a := range o.Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return AccountView{}, false
}

// Card returns the view of the card with the given ID.
func (o *Overview) Card(cardID string) (CardView, bool) {
	for _, a := range o.Accounts {
		for _, c := range a.Cards {
			if c.ID == cardID {
				return c, true
			}
		}
	}
	return CardView{}, false
}

func (s *Service) overview(person models.Person) *Overview {
	state := s.access(person)
	out := &Overview{
		PersonID:          person.ID,
		FullName:          person.FullName,
		Access:            state,
		WalletBalance:     person.WalletBalance,
		PhysicalCardPrice: s.config.PhysicalCardPrice,
		Currency:          s.config.Currency,
		Accounts:          []AccountView{},
	}
	if state != policy.AccessFull {
		out.Remediation = state.Flow()
		out.Message = state.Message()
		return out
	}

	for _, account := range person.Accounts {
		view := AccountView{
			Name:                 account.Name,
			PhysicalOrderPending: account.PhysicalOrderPending,
			OrderLabel:           policy.OrderLabel(account),
			Actions:              policy.AccountActions(account, person, s.config.PhysicalCardPrice).Strings(),
			Cards:                make([]CardView, 0, len(account.Cards)),
		}
		var denied *policy.OrderDeniedError
		if err := policy.CanOrderPhysical(account, person, s.config.PhysicalCardPrice); errors.As(err, &denied) {
			view.OrderDenial = string(denied.Reason)
			view.OrderDenialMessage = denied.Reason.Message()
		}
		for _, card := range account.Cards {
			view.Cards = append(view.Cards, CardView{
				Card:    card,
				Actions: policy.AvailableActions(card).Strings(),
			})
		}
		out.Accounts = append(out.Accounts, view)
	}
	return out
}
