package models

type Account struct {
	Name                 string `json:"account_name"`
	PhysicalOrderPending bool   `json:"is_phys_card_ordered"`
	// Cards are kept in creation order.
	Cards []Card `json:"cards"`
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	out := a
	if a.Cards != nil {
		out.Cards = make([]Card, len(a.Cards))
		copy(out.Cards, a.Cards)
	}
	return out
}

// PhysicalCards returns the physical cards of the account in creation order.
func (a Account) PhysicalCards() []Card {
	var out []Card
	for _, c := range a.Cards {
		if c.IsPhysical() {
			out = append(out, c)
		}
	}
	return out
}

// LatestCard returns the most recently created card of the given class.
func (a Account) LatestCard(class CardClass) (Card, bool) {
	for i := len(a.Cards) - 1; i >= 0; i-- {
		if a.Cards[i].Class == class {
			return a.Cards[i], true
		}
	}
	return Card{}, false
}

// Card looks a card up by ID.
func (a Account) Card(cardID string) (Card, bool) {
	for _, c := range a.Cards {
		if c.ID == cardID {
			return c, true
		}
	}
	return Card{}, false
}
